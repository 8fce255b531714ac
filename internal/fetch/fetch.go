package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/opencontainers/go-digest"

	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

const (

	// URL scheme root for embeddable CPython distributions.
	DefaultBaseURL = "https://www.python.org/ftp/python"

	// Canonical location of the pip bootstrap script.
	DefaultGetPipURL = "https://bootstrap.pypa.io/get-pip.py"

	// File name of the cached pip bootstrap script.
	GetPipFile = "get-pip.py"

	// Suffix for in-progress downloads. A download is only visible under
	// its final name after the stream completes and the file is renamed.
	partialSuffix = ".partial"

	// Maximum download retries before giving up.
	defaultRetryMax = 3

	// Maximum wait for response headers on a download attempt. Body
	// transfer has no fixed deadline; large archives on slow links are cut
	// off only by caller context cancellation.
	defaultHeaderTimeout = 30 * time.Second
)

// Downloads runtime distributions and the pip bootstrap script into a
// persistent cache.
//
// The cache is keyed by (version, architecture) for runtime archives and is
// append-only: entries are reused indefinitely and never evicted
// automatically. Content is not re-validated on cache hits unless an
// expected digest is configured.
type Fetcher struct {
	BaseURL   string        // Distribution URL root. Defaults to [DefaultBaseURL].
	GetPipURL string        // pip bootstrap URL. Defaults to [DefaultGetPipURL].
	CacheDir  string        // Persistent cache root. Required.
	Digest    digest.Digest // Expected runtime archive digest. Empty disables verification.

	log    hclog.Logger
	client *retryablehttp.Client
}

// Creates a new [Fetcher] writing into the given cache directory.
//
// Downloads are retried with backoff on transient failures. Retry attempts
// are logged through the given logger.
func New(log hclog.Logger, cacheDir string) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.Logger = log.Named("http")
	if transport, ok := client.HTTPClient.Transport.(*http.Transport); ok {
		transport.ResponseHeaderTimeout = defaultHeaderTimeout
	}

	return &Fetcher{
		BaseURL:   DefaultBaseURL,
		GetPipURL: DefaultGetPipURL,
		CacheDir:  cacheDir,
		log:       log,
		client:    client,
	}
}

// Returns the archive file name for a runtime version and architecture
// (e.g., "python-3.11.4-embed-amd64.zip").
func ArchiveName(version, arch string) string {
	return fmt.Sprintf("python-%s-embed-%s.zip", version, arch)
}

// Returns the download URL for a runtime version and architecture.
func (f *Fetcher) runtimeURL(version, arch string) string {
	return fmt.Sprintf("%s/%s/%s", f.BaseURL, version, ArchiveName(version, arch))
}

// Fetches the embeddable runtime archive for a version and architecture,
// returning the path to the cached archive.
//
// The cache is checked by file existence; a present entry skips the network
// entirely. When an expected digest is configured it is verified on both
// fresh downloads and cache hits, and a mismatch fails the fetch.
func (f *Fetcher) Runtime(ctx context.Context, version, arch string) (string, error) {
	entry := filepath.Join(f.CacheDir, version+"-"+arch, ArchiveName(version, arch))

	cached, err := f.cached(entry)
	if err != nil {
		return "", err
	}

	if !cached {
		url := f.runtimeURL(version, arch)
		f.log.Info("downloading runtime", "version", version, "arch", arch, "url", url)
		if err := f.download(ctx, url, entry); err != nil {
			return "", err
		}
	} else {
		f.log.Debug("runtime archive cached", "path", entry)
	}

	if f.Digest != "" {
		if err := f.verify(entry); err != nil {
			return "", err
		}
	}

	return entry, nil
}

// Fetches the pip bootstrap script, returning the path to the cached copy.
//
// Same cache policy as runtime archives: present entries are reused without
// re-validation.
func (f *Fetcher) GetPip(ctx context.Context) (string, error) {
	entry := filepath.Join(f.CacheDir, GetPipFile)

	cached, err := f.cached(entry)
	if err != nil {
		return "", err
	}
	if cached {
		f.log.Debug("pip bootstrap script cached", "path", entry)
		return entry, nil
	}

	f.log.Info("downloading pip bootstrap script", "url", f.GetPipURL)
	if err := f.download(ctx, f.GetPipURL, entry); err != nil {
		return "", err
	}
	return entry, nil
}

// Reports whether a cache entry already exists as a regular file.
func (f *Fetcher) cached(entry string) (bool, error) {
	info, err := os.Stat(entry)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat cache entry: %w", ErrDownload, err)
	}
	return info.Mode().IsRegular(), nil
}

// Streams a URL into a cache entry.
//
// The body is written to a temporary ".partial" file beside the final name
// and renamed into place only after the stream completes fully, so a killed
// download never leaves a corrupt entry under the final name.
func (f *Fetcher) download(ctx context.Context, url, entry string) error {
	if err := os.MkdirAll(filepath.Dir(entry), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: create cache directory: %w", ErrDownload, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrDownload, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %s", ErrDownload, url, resp.Status)
	}

	partial := entry + partialSuffix
	tmp, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("%w: create temporary file: %w", ErrDownload, err)
	}

	if err := writeBody(tmp, resp.Body); err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: write %s: %w", ErrDownload, partial, err)
	}

	if err := os.Rename(partial, entry); err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: commit cache entry: %w", ErrDownload, err)
	}

	f.log.Debug("download complete", "path", entry)
	return nil
}

// Copies the response body to the temporary file and syncs it to disk
// before the atomic rename.
func writeBody(tmp *os.File, body io.Reader) error {
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	return tmp.Close()
}

// Verifies a cache entry against the expected digest.
func (f *Fetcher) verify(entry string) error {
	file, err := os.Open(entry)
	if err != nil {
		return fmt.Errorf("%w: open cache entry: %w", ErrDownload, err)
	}
	defer file.Close()

	verifier := f.Digest.Verifier()
	if _, err := io.Copy(verifier, file); err != nil {
		return fmt.Errorf("%w: read cache entry: %w", ErrDownload, err)
	}

	if !verifier.Verified() {
		return fmt.Errorf("%w: %s does not match digest %s", ErrDownload, entry, f.Digest)
	}

	f.log.Debug("digest verified", "path", entry, "digest", f.Digest)
	return nil
}
