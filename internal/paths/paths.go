package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ruslan-rv-ua/py2winapp/internal"
)

const (

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the persistent download cache shared across all projects.
//
//	Linux:   ~/.cache/py2winapp
//	macOS:   ~/Library/Caches/py2winapp
//	Windows: %LOCALAPPDATA%\py2winapp
func Cache() string {
	return filepath.Join(xdg.CacheHome, internal.Name)
}

// Path to the cache subdirectory holding downloaded runtime archives.
//
// One subdirectory per (version, architecture) pair, each holding the raw
// archive as downloaded. Entries are never evicted automatically.
func RuntimeCache() string {
	return filepath.Join(Cache(), "runtime")
}

// Directories searched for launcher stub templates, in priority order.
//
// The directory containing the running executable is searched first, then
// the "py2winapp/templates" subdirectory of each XDG data directory.
func TemplateDirs() []string {
	var dirs []string

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	dirs = append(dirs, filepath.Join(xdg.DataHome, internal.Name, "templates"))
	for _, dir := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(dir, internal.Name, "templates"))
	}

	return dirs
}
