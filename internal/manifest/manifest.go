package manifest

import (
	_ "embed"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://huggingface.co/Supertone/supertonic/resolve/main"
	defaultRootDir = "assets"
)

//go:embed manifest.yaml
var embeddedManifest []byte

// Manifest enumerates the asset files the fetcher must ensure locally.
// The list is baked into the binary at build time; there is no runtime
// configuration surface.
type Manifest struct {
	BaseURL string   `yaml:"base_url"`
	RootDir string   `yaml:"root_dir"`
	Files   []string `yaml:"files"`
}

// Embedded decodes the manifest compiled into the binary.
func Embedded() (*Manifest, error) {
	return Parse(embeddedManifest)
}

// Parse decodes manifest data, applies defaults and validates every entry.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse asset manifest")
	}

	m.BaseURL = strings.TrimRight(strings.TrimSpace(m.BaseURL), "/")
	if m.BaseURL == "" {
		m.BaseURL = defaultBaseURL
	}

	m.RootDir = strings.TrimSpace(m.RootDir)
	if m.RootDir == "" {
		m.RootDir = defaultRootDir
	}

	files := make([]string, 0, len(m.Files))
	for _, entry := range m.Files {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
		files = append(files, entry)
	}
	m.Files = files

	return &m, nil
}

// RemoteURL joins the manifest base URL with a relative entry path.
func (m *Manifest) RemoteURL(entry string) string {
	return m.BaseURL + "/" + path.Clean(strings.TrimPrefix(entry, "/"))
}

// LocalPath maps a relative entry path into the local asset root.
func (m *Manifest) LocalPath(entry string) string {
	return filepath.Join(m.RootDir, filepath.FromSlash(entry))
}

func validateEntry(entry string) error {
	if strings.HasPrefix(entry, "/") {
		return errors.Errorf("manifest entry must be relative: %s", entry)
	}
	cleaned := path.Clean(entry)
	if cleaned != entry {
		return errors.Errorf("manifest entry is not in canonical form: %s", entry)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return errors.Errorf("manifest entry escapes the asset root: %s", entry)
	}
	return nil
}
