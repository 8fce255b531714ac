package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

// Fixed timestamp written to every archive entry.
//
// The zip format cannot represent dates before 1980, so the epoch floor is
// used. A fixed timestamp makes archives from identical input trees
// byte-identical regardless of when they were built.
var archiveEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Compresses a directory tree into a zip file.
//
// Entries are rooted at baseDir (the name of root's final path element in
// the archive) and written in lexical walk order with a fixed timestamp, so
// repeated runs over identical input produce byte-identical output. The
// destination's parent directory must exist.
func CreateZip(dest, root, baseDir string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		name := filepath.ToSlash(filepath.Join(baseDir, rel))
		return writeZipEntry(zw, path, name, d)
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archive %s: %w", root, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return out.Close()
}

// Writes a single file or directory entry to a zip writer.
func writeZipEntry(zw *zip.Writer, path, name string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Modified = archiveEpoch
	header.Method = zip.Deflate

	if d.IsDir() {
		header.Name = name + "/"
		header.Method = zip.Store
		_, err = zw.CreateHeader(header)
		return err
	}

	header.Name = name
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Extracts a zip archive into a destination directory.
//
// Entry modes are preserved so executable bits survive the round trip.
// Entries that would escape the destination directory are rejected.
func Unzip(src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", src, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := extractZipEntry(f, dest); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

// Extracts a single zip entry under dest.
func extractZipEntry(f *zip.File, dest string) error {
	name := filepath.FromSlash(f.Name)
	target := filepath.Join(dest, name)

	// Reject entries escaping the destination (zip-slip).
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal entry path %q", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, paths.DefaultDirMode)
	}

	if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
		return err
	}

	mode := f.Mode()
	if mode == 0 {
		mode = paths.DefaultFileMode
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}
