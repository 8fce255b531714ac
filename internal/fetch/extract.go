package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruslan-rv-ua/py2winapp/internal/archive"
	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

// Extracts a runtime archive into the build's runtime directory.
//
// Any prior contents of the destination are removed first. Extraction is
// build-local and always re-runs, even when the archive itself came from
// the cache.
func (f *Fetcher) Extract(archivePath, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("%w: clear %s: %w", ErrExtract, dest, err)
	}
	if err := os.MkdirAll(dest, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrExtract, dest, err)
	}

	f.log.Debug("extracting runtime", "archive", archivePath, "dest", dest)

	if err := archive.Unzip(archivePath, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	return nil
}

// Removes leftover partial downloads from a cache directory.
//
// Only ".partial" temporaries are removed, never completed cache entries.
// Returns the number of files removed.
func PruneCache(cacheDir string) (int, error) {
	var pruned int

	err := filepath.WalkDir(cacheDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == cacheDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), partialSuffix) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		pruned++
		return nil
	})

	return pruned, err
}
