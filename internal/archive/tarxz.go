package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Compresses a directory tree into a tar.xz file.
//
// Entry ordering and timestamps follow the same determinism rules as
// [CreateZip]: lexical walk order, fixed timestamp, entries rooted at
// baseDir.
func CreateTarXz(dest, root, baseDir string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	xw, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("create xz stream: %w", err)
	}
	tw := tar.NewWriter(xw)

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
		return writeTarEntry(tw, path, name, d)
	})
	if err != nil {
		tw.Close()
		xw.Close()
		return fmt.Errorf("archive %s: %w", root, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("finalize xz stream: %w", err)
	}
	return out.Close()
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, path, name string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name
	header.ModTime = archiveEpoch
	header.AccessTime = archiveEpoch
	header.ChangeTime = archiveEpoch
	header.Uid = 0
	header.Gid = 0
	header.Uname = ""
	header.Gname = ""

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
