package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"supertonic-fetch/internal/logger"
	"supertonic-fetch/internal/manifest"
)

func testLogger() logger.Logger {
	return logger.NewStandardLogger(logger.WithOutput(io.Discard))
}

func testManifest(baseURL, rootDir string, files ...string) *manifest.Manifest {
	return &manifest.Manifest{
		BaseURL: baseURL,
		RootDir: rootDir,
		Files:   files,
	}
}

// countingServer serves fixed content per request path and counts requests.
func countingServer(t *testing.T, content map[string]string) (*httptest.Server, *int64) {
	t.Helper()

	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestFetchAllDownloadsMissing(t *testing.T) {
	srv, _ := countingServer(t, map[string]string{"/a/x.json": `{"model":"tts"}`})

	root := filepath.Join(t.TempDir(), "assets")
	f, err := New(testManifest(srv.URL, root, "a/x.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := f.FetchAll(context.Background())
	if len(sum.Fetched) != 1 || sum.Fetched[0] != "a/x.json" {
		t.Fatalf("expected a/x.json fetched, got %+v", sum)
	}

	data, err := os.ReadFile(filepath.Join(root, "a", "x.json"))
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if string(data) != `{"model":"tts"}` {
		t.Fatalf("unexpected content: %s", data)
	}
}

func TestFetchAllSkipsExisting(t *testing.T) {
	srv, requests := countingServer(t, map[string]string{"/a/x.json": "remote"})

	root := filepath.Join(t.TempDir(), "assets")
	local := filepath.Join(root, "a", "x.json")
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("local copy"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := New(testManifest(srv.URL, root, "a/x.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := f.FetchAll(context.Background())
	if len(sum.Skipped) != 1 {
		t.Fatalf("expected entry skipped, got %+v", sum)
	}
	if got := atomic.LoadInt64(requests); got != 0 {
		t.Fatalf("expected no network calls for existing file, got %d", got)
	}

	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "local copy" {
		t.Fatalf("existing file was modified: %s", data)
	}
}

func TestFetchAllContinuesAfterFailure(t *testing.T) {
	srv, _ := countingServer(t, map[string]string{"/good.json": "ok"})

	root := filepath.Join(t.TempDir(), "assets")
	f, err := New(testManifest(srv.URL, root, "missing.json", "good.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := f.FetchAll(context.Background())
	if len(sum.Failed) != 1 || sum.Failed[0] != "missing.json" {
		t.Fatalf("expected missing.json failed, got %+v", sum)
	}
	if len(sum.Fetched) != 1 || sum.Fetched[0] != "good.json" {
		t.Fatalf("expected good.json fetched after earlier failure, got %+v", sum)
	}

	if _, err := os.Stat(filepath.Join(root, "missing.json")); !os.IsNotExist(err) {
		t.Fatalf("failed entry must not leave a file behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "good.json")); err != nil {
		t.Fatalf("expected good.json to exist: %v", err)
	}
}

func TestFetchAllSecondRunDownloadsNothing(t *testing.T) {
	srv, requests := countingServer(t, map[string]string{
		"/onnx/tts.json":        "{}",
		"/voice_styles/M1.json": "{}",
	})

	root := filepath.Join(t.TempDir(), "assets")
	f, err := New(testManifest(srv.URL, root, "onnx/tts.json", "voice_styles/M1.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := f.FetchAll(context.Background())
	if !first.Complete() || len(first.Fetched) != 2 {
		t.Fatalf("first run should fetch everything, got %+v", first)
	}

	before := atomic.LoadInt64(requests)
	second := f.FetchAll(context.Background())
	if len(second.Skipped) != 2 || len(second.Fetched) != 0 {
		t.Fatalf("second run should skip everything, got %+v", second)
	}
	if after := atomic.LoadInt64(requests); after != before {
		t.Fatalf("second run performed %d downloads", after-before)
	}
}

func TestFetchAllRemovesPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Announce more bytes than are written so the client sees a
		// truncated body mid-stream.
		w.Header().Set("Content-Length", "1024")
		io.WriteString(w, "short")
	}))
	t.Cleanup(srv.Close)

	root := filepath.Join(t.TempDir(), "assets")
	f, err := New(testManifest(srv.URL, root, "big.onnx"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := f.FetchAll(context.Background())
	if len(sum.Failed) != 1 {
		t.Fatalf("expected truncated download to fail, got %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(root, "big.onnx")); !os.IsNotExist(err) {
		t.Fatalf("partial file should have been removed: %v", err)
	}
}

func TestFetchAllDirCreationFailureIsIsolated(t *testing.T) {
	srv, _ := countingServer(t, map[string]string{"/b/y.json": "ok"})

	root := filepath.Join(t.TempDir(), "assets")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	// A regular file where a directory is needed makes MkdirAll fail.
	if err := os.WriteFile(filepath.Join(root, "a"), []byte("blocker"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := New(testManifest(srv.URL, root, "a/x.json", "b/y.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := f.FetchAll(context.Background())
	if len(sum.Failed) != 1 || sum.Failed[0] != "a/x.json" {
		t.Fatalf("expected a/x.json to fail on directory creation, got %+v", sum)
	}
	if len(sum.Fetched) != 1 || sum.Fetched[0] != "b/y.json" {
		t.Fatalf("expected b/y.json fetched despite earlier failure, got %+v", sum)
	}
}

func TestNewRejectsNilArguments(t *testing.T) {
	if _, err := New(nil, testLogger()); err == nil {
		t.Fatal("expected error for nil manifest")
	}
	if _, err := New(testManifest("http://example.invalid", "assets"), nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestSummaryStatus(t *testing.T) {
	sum := Summary{
		Fetched: []string{"a"},
		Skipped: []string{"b"},
		Failed:  []string{"c"},
	}

	cases := map[string]EntryStatus{
		"a": StatusFetched,
		"b": StatusSkipped,
		"c": StatusFailed,
		"d": StatusUnknown,
	}
	for entry, want := range cases {
		if got := sum.Status(entry); got != want {
			t.Errorf("Status(%q) = %q, want %q", entry, got, want)
		}
	}

	if sum.Attempted() != 3 {
		t.Errorf("Attempted() = %d, want 3", sum.Attempted())
	}
	if sum.Complete() {
		t.Error("summary with failures must not be complete")
	}
}
