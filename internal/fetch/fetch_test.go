package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/opencontainers/go-digest"
)

// Serves a minimal runtime archive and get-pip.py, counting requests per
// path.
type fakeDistributor struct {
	server  *httptest.Server
	archive []byte
	hits    map[string]*atomic.Int64
}

func newFakeDistributor(t *testing.T) *fakeDistributor {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("python.exe")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	w.Write([]byte("interpreter"))
	zw.Close()

	d := &fakeDistributor{
		archive: buf.Bytes(),
		hits: map[string]*atomic.Int64{
			"archive": {},
			"get-pip": {},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/3.11.4/python-3.11.4-embed-amd64.zip", func(w http.ResponseWriter, r *http.Request) {
		d.hits["archive"].Add(1)
		w.Write(d.archive)
	})
	mux.HandleFunc("/get-pip.py", func(w http.ResponseWriter, r *http.Request) {
		d.hits["get-pip"].Add(1)
		w.Write([]byte("# pip bootstrap\n"))
	})

	d.server = httptest.NewServer(mux)
	t.Cleanup(d.server.Close)
	return d
}

func newTestFetcher(t *testing.T, d *fakeDistributor) *Fetcher {
	t.Helper()
	f := New(hclog.NewNullLogger(), t.TempDir())
	f.BaseURL = d.server.URL
	f.GetPipURL = d.server.URL + "/get-pip.py"
	return f
}

func TestRuntimeDownloadsOnce(t *testing.T) {
	d := newFakeDistributor(t)
	f := newTestFetcher(t, d)

	var first string
	for i := 0; i < 3; i++ {
		path, err := f.Runtime(context.Background(), "3.11.4", "amd64")
		if err != nil {
			t.Fatalf("Runtime: %v", err)
		}
		if first == "" {
			first = path
		}
		if path != first {
			t.Fatalf("path = %q, want %q", path, first)
		}
	}

	if got := d.hits["archive"].Load(); got != 1 {
		t.Errorf("downloads = %d, want 1", got)
	}

	content, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read cache entry: %v", err)
	}
	if !bytes.Equal(content, d.archive) {
		t.Error("cached archive differs from served archive")
	}
}

func TestRuntimeNotFound(t *testing.T) {
	d := newFakeDistributor(t)
	f := newTestFetcher(t, d)

	_, err := f.Runtime(context.Background(), "9.9.9", "amd64")
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("err = %v, want ErrDownload", err)
	}

	// A failed download must not leave a cache entry behind.
	entry := filepath.Join(f.CacheDir, "9.9.9-amd64", ArchiveName("9.9.9", "amd64"))
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("cache entry exists after failed download")
	}
	if _, err := os.Stat(entry + partialSuffix); !os.IsNotExist(err) {
		t.Errorf("partial file left after failed download")
	}
}

func TestRuntimeDigest(t *testing.T) {
	d := newFakeDistributor(t)

	t.Run("match", func(t *testing.T) {
		f := newTestFetcher(t, d)
		f.Digest = digest.FromBytes(d.archive)

		if _, err := f.Runtime(context.Background(), "3.11.4", "amd64"); err != nil {
			t.Fatalf("Runtime: %v", err)
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		f := newTestFetcher(t, d)
		f.Digest = digest.FromBytes([]byte("something else"))

		_, err := f.Runtime(context.Background(), "3.11.4", "amd64")
		if !errors.Is(err, ErrDownload) {
			t.Fatalf("err = %v, want ErrDownload", err)
		}
	})

	t.Run("mismatch on cache hit", func(t *testing.T) {
		f := newTestFetcher(t, d)
		if _, err := f.Runtime(context.Background(), "3.11.4", "amd64"); err != nil {
			t.Fatalf("Runtime: %v", err)
		}

		f.Digest = digest.FromBytes([]byte("something else"))
		_, err := f.Runtime(context.Background(), "3.11.4", "amd64")
		if !errors.Is(err, ErrDownload) {
			t.Fatalf("err = %v, want ErrDownload", err)
		}
	})
}

func TestGetPipCached(t *testing.T) {
	d := newFakeDistributor(t)
	f := newTestFetcher(t, d)

	for i := 0; i < 2; i++ {
		path, err := f.GetPip(context.Background())
		if err != nil {
			t.Fatalf("GetPip: %v", err)
		}
		if filepath.Base(path) != GetPipFile {
			t.Fatalf("path = %q, want base %q", path, GetPipFile)
		}
	}

	if got := d.hits["get-pip"].Load(); got != 1 {
		t.Errorf("downloads = %d, want 1", got)
	}
}

func TestExtractOverwritesPriorContents(t *testing.T) {
	d := newFakeDistributor(t)
	f := newTestFetcher(t, d)

	archivePath, err := f.Runtime(context.Background(), "3.11.4", "amd64")
	if err != nil {
		t.Fatalf("Runtime: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "python")
	stale := filepath.Join(dest, "stale.txt")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := f.Extract(archivePath, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived extraction")
	}
	if _, err := os.Stat(filepath.Join(dest, "python.exe")); err != nil {
		t.Errorf("python.exe missing after extraction: %v", err)
	}
}

func TestExtractMalformedArchive(t *testing.T) {
	f := New(hclog.NewNullLogger(), t.TempDir())

	bogus := filepath.Join(t.TempDir(), "bogus.zip")
	if err := os.WriteFile(bogus, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := f.Extract(bogus, filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
}

func TestPruneCache(t *testing.T) {
	cache := t.TempDir()

	keep := filepath.Join(cache, "3.11.4-amd64", "python-3.11.4-embed-amd64.zip")
	drop := keep + partialSuffix
	if err := os.MkdirAll(filepath.Dir(keep), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, p := range []string{keep, drop} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	n, err := PruneCache(cache)
	if err != nil {
		t.Fatalf("PruneCache: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned = %d, want 1", n)
	}

	if _, err := os.Stat(keep); err != nil {
		t.Error("completed cache entry was pruned")
	}
	if _, err := os.Stat(drop); !os.IsNotExist(err) {
		t.Error("partial file survived prune")
	}
}

func TestPruneCacheMissingDir(t *testing.T) {
	n, err := PruneCache(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("PruneCache: %v", err)
	}
	if n != 0 {
		t.Fatalf("pruned = %d, want 0", n)
	}
}

func TestNewClientConfiguration(t *testing.T) {
	f := New(hclog.NewNullLogger(), t.TempDir())

	if f.client.RetryMax != defaultRetryMax {
		t.Errorf("RetryMax = %d, want %d", f.client.RetryMax, defaultRetryMax)
	}

	transport, ok := f.client.HTTPClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport is %T, want *http.Transport", f.client.HTTPClient.Transport)
	}
	if transport.ResponseHeaderTimeout != defaultHeaderTimeout {
		t.Errorf("ResponseHeaderTimeout = %v, want %v",
			transport.ResponseHeaderTimeout, defaultHeaderTimeout)
	}
}
