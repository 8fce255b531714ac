package staging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

// Patterns excluded from staging in every build, in addition to any
// patterns the caller configures.
var DefaultIgnorePatterns = []string{
	"__pycache__",
	"*.pyc",
}

// Copies a source tree into the build output, applying ignore patterns.
//
// Patterns match either an entry's base name (fnmatch style, e.g. "*.pyc")
// or its slash-separated path relative to the source root (doublestar, e.g.
// "assets/**/*.psd"). A directory match prunes the entire subtree before
// descent, so large excluded trees such as virtual environments are never
// walked. Every non-matching file appears in destDir at the same relative
// path it had under srcDir.
func Stage(log hclog.Logger, srcDir, destDir string, ignore []string) error {
	patterns := append([]string{}, DefaultIgnorePatterns...)
	patterns = append(patterns, ignore...)

	log.Debug("staging sources", "src", srcDir, "dest", destDir, "ignore", patterns)

	err := filepath.WalkDir(srcDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(destDir, paths.DefaultDirMode)
		}

		excluded, err := matches(patterns, rel, d.Name())
		if err != nil {
			return err
		}
		if excluded {
			log.Debug("ignoring", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(destDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, paths.DefaultDirMode)
		}
		return copyFile(p, target)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStaging, err)
	}
	return nil
}

// Reports whether any pattern matches the entry's base name or its
// slash-relative path.
func matches(patterns []string, rel, base string) (bool, error) {
	slashRel := filepath.ToSlash(rel)

	for _, pattern := range patterns {
		ok, err := path.Match(pattern, base)
		if err != nil {
			return false, fmt.Errorf("bad ignore pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}

		ok, err = doublestar.Match(pattern, slashRel)
		if err != nil {
			return false, fmt.Errorf("bad ignore pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Verifies that the configured entry point exists inside the staged tree.
//
// This is the single integrity check that catches a misconfigured entry
// point before the launcher is built around a nonexistent target.
func CheckEntryPoint(stagedDir, entryFile string) error {
	p := filepath.Join(stagedDir, entryFile)

	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrEntryPoint, p)
	}
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrEntryPoint, p, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrEntryPoint, p)
	}
	return nil
}

// Copies a file, preserving its mode.
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
