//go:build windows

package launcher

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	beginUpdateResource = kernel32.NewProc("BeginUpdateResourceW")
	updateResource      = kernel32.NewProc("UpdateResourceW")
	endUpdateResource   = kernel32.NewProc("EndUpdateResourceW")
)

// Neutral language ID used for all written resources.
const langNeutral = 0

// Writes the icon into the executable's resource section in place.
//
// The group directory is stored as RT_GROUP_ICON with ID 0 and each image
// as RT_ICON with IDs 1..N, matching the IDs referenced by the group
// directory.
func updateIcon(exePath string, icon *Icon) error {
	pathPtr, err := windows.UTF16PtrFromString(exePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	handle, _, callErr := beginUpdateResource.Call(uintptr(unsafe.Pointer(pathPtr)), 0)
	if handle == 0 {
		return fmt.Errorf("%w: begin resource update: %w", ErrGenerate, callErr)
	}

	group := icon.GroupData()
	if err := writeResource(handle, rtGroupIcon, 0, group); err != nil {
		return err
	}
	for n, image := range icon.Images() {
		if err := writeResource(handle, rtIcon, uintptr(n+1), image); err != nil {
			return err
		}
	}

	ok, _, callErr := endUpdateResource.Call(handle, 0)
	if ok == 0 {
		return fmt.Errorf("%w: commit resource update: %w", ErrGenerate, callErr)
	}
	return nil
}

// Writes a single resource entry under the update handle.
func writeResource(handle uintptr, resType, id uintptr, data []byte) error {
	ok, _, callErr := updateResource.Call(
		handle,
		resType,
		id,
		langNeutral,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
	)
	if ok == 0 {
		return fmt.Errorf("%w: write resource %d/%d: %w", ErrGenerate, resType, id, callErr)
	}
	return nil
}
