//go:build !windows

package launcher

import "fmt"

// Icon patching rewrites the executable's resource section through the
// Windows resource update API, which has no portable equivalent. Builds
// configured with an icon must run on a Windows host.
func updateIcon(exePath string, icon *Icon) error {
	return fmt.Errorf("%w: icon patching requires a windows host", ErrGenerate)
}
