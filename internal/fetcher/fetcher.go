package fetcher

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	apperrors "supertonic-fetch/internal/errors"
	"supertonic-fetch/internal/logger"
	"supertonic-fetch/internal/manifest"
)

const copyBufferSize = 32 * 1024

// HTTPClient represents the subset of http.Client methods required by the fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher ensures every manifest entry exists under the local asset root,
// downloading missing files one at a time. Failures are confined to the
// entry that caused them; the batch always runs to completion.
type Fetcher struct {
	man      *manifest.Manifest
	logger   logger.Logger
	client   HTTPClient
	fs       FileSystem
	reporter Reporter
}

// Option customises Fetcher construction.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithFileSystem overrides the filesystem implementation.
func WithFileSystem(fs FileSystem) Option {
	return func(f *Fetcher) {
		f.fs = fs
	}
}

// WithReporter overrides the download reporter implementation.
func WithReporter(reporter Reporter) Option {
	return func(f *Fetcher) {
		f.reporter = reporter
	}
}

// New constructs a Fetcher for the provided manifest, logger and options.
func New(man *manifest.Manifest, log logger.Logger, opts ...Option) (*Fetcher, error) {
	if man == nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "asset manifest must not be nil", nil).
			WithModule("fetcher").
			WithOperation("New")
	}
	if log == nil {
		return nil, apperrors.SystemError(apperrors.CodeSystemGeneric, "logger must not be nil", nil).
			WithModule("fetcher").
			WithOperation("New")
	}

	f := &Fetcher{
		man:      man,
		logger:   log,
		client:   defaultHTTPClient(),
		fs:       &OSFileSystem{},
		reporter: &NoopReporter{},
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = defaultHTTPClient()
	}
	if f.fs == nil {
		f.fs = &OSFileSystem{}
	}
	if f.reporter == nil {
		f.reporter = &NoopReporter{}
	}

	return f, nil
}

// FetchAll walks the manifest in order, downloading each missing entry.
// A failed entry is logged and counted; it never stops the remaining entries.
func (f *Fetcher) FetchAll(ctx context.Context) Summary {
	var sum Summary

	for _, entry := range f.man.Files {
		localPath := f.man.LocalPath(entry)

		if err := f.fs.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			f.logger.Warn("Failed to create directory for %s: %v", entry, err)
			sum.Failed = append(sum.Failed, entry)
			continue
		}

		if _, err := f.fs.Stat(localPath); err == nil {
			f.logger.Info("%s already exists, skipping", localPath)
			sum.Skipped = append(sum.Skipped, entry)
			continue
		}

		if err := f.download(ctx, entry, localPath); err != nil {
			f.logger.Warn("Failed to download %s: %v", entry, err)
			sum.Failed = append(sum.Failed, entry)
			continue
		}

		f.logger.Success("Downloaded %s", entry)
		sum.Fetched = append(sum.Fetched, entry)
	}

	return sum
}

func (f *Fetcher) download(ctx context.Context, entry, localPath string) error {
	url := f.man.RemoteURL(entry)
	f.logger.Info("Downloading %s to %s", url, localPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.NetworkError(apperrors.CodeNetworkGeneric, "failed to create download request", err).
			WithModule("fetcher").
			WithOperation("download").
			WithField("url", url)
	}
	req.Header.Set("User-Agent", "supertonic-fetch/1.0 (Go downloader)")

	resp, err := f.client.Do(req)
	if err != nil {
		return apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download request failed", err).
			WithModule("fetcher").
			WithOperation("download").
			WithField("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NetworkError(apperrors.CodeNetworkGeneric, "download failed with unexpected status", nil).
			WithModule("fetcher").
			WithOperation("download").
			WithField("url", url).
			WithField("status", resp.StatusCode)
	}

	if err := f.writeBody(resp, entry, localPath); err != nil {
		// A half-written file must not satisfy the next run's existence check.
		_ = f.fs.Remove(localPath)
		return err
	}

	return nil
}

func (f *Fetcher) writeBody(resp *http.Response, entry, localPath string) error {
	file, err := f.fs.Create(localPath)
	if err != nil {
		return apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to create local file", err).
			WithModule("fetcher").
			WithOperation("writeBody").
			WithField("path", localPath)
	}
	defer file.Close()

	f.reporter.OnStart(entry, resp.ContentLength)
	start := time.Now()

	buf := make([]byte, copyBufferSize)
	written, err := io.CopyBuffer(file, resp.Body, buf)
	if err != nil {
		return apperrors.SystemError(apperrors.CodeSystemGeneric, "failed to write file to disk", err).
			WithModule("fetcher").
			WithOperation("writeBody").
			WithField("path", localPath)
	}

	f.reporter.OnComplete(entry, written, time.Since(start))
	return nil
}

func defaultHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}

	// Model files can be large; the overall request deliberately has no
	// deadline and blocks until the body is fully streamed.
	return &http.Client{Transport: transport}
}
