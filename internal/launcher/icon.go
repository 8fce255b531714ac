package launcher

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// Windows resource type identifiers for icon resources.
const (
	rtIcon      = 3
	rtGroupIcon = 14
)

// A .ico file header.
type iconDir struct {
	Reserved uint16 // Must be zero.
	Type     uint16 // 1 for icons.
	Count    uint16 // Number of images in the file.
}

// A directory entry in a .ico file, describing one image.
type iconDirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	ImageOff   uint32
}

// The in-executable counterpart of [iconDirEntry]: the image offset is
// replaced by the RT_ICON resource ID the image is stored under.
type grpIconDirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	ID         uint16
}

// The parsed contents of a .ico file, ready to be written into an
// executable's resource section.
type Icon struct {
	header  iconDir
	entries []iconDirEntry
	images  [][]byte
}

// Parses a .ico file.
//
// The header and every directory entry are validated; the raw image blobs
// are read but not decoded. Fails when the file is not a valid icon
// resource.
func ParseIcon(path string) (*Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read icon %s: %w", ErrGenerate, path, err)
	}

	r := bytes.NewReader(data)

	var icon Icon
	if err := binary.Read(r, binary.LittleEndian, &icon.header); err != nil {
		return nil, fmt.Errorf("%w: icon %s: truncated header", ErrGenerate, path)
	}
	if icon.header.Reserved != 0 || icon.header.Type != 1 || icon.header.Count == 0 {
		return nil, fmt.Errorf("%w: %s is not a valid icon file", ErrGenerate, path)
	}

	icon.entries = make([]iconDirEntry, icon.header.Count)
	for i := range icon.entries {
		if err := binary.Read(r, binary.LittleEndian, &icon.entries[i]); err != nil {
			return nil, fmt.Errorf("%w: icon %s: truncated directory", ErrGenerate, path)
		}
	}

	icon.images = make([][]byte, icon.header.Count)
	for i, entry := range icon.entries {
		end := int64(entry.ImageOff) + int64(entry.BytesInRes)
		if int64(entry.ImageOff) >= int64(len(data)) || end > int64(len(data)) {
			return nil, fmt.Errorf("%w: icon %s: image %d out of bounds", ErrGenerate, path, i)
		}
		icon.images[i] = data[entry.ImageOff:end]
	}

	return &icon, nil
}

// Builds the RT_GROUP_ICON resource payload: the icon header followed by
// one group entry per image, each referencing the RT_ICON resource ID the
// image will be stored under (1-based).
func (i *Icon) GroupData() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, i.header)

	for n, entry := range i.entries {
		group := grpIconDirEntry{
			Width:      entry.Width,
			Height:     entry.Height,
			ColorCount: entry.ColorCount,
			Reserved:   entry.Reserved,
			Planes:     entry.Planes,
			BitCount:   entry.BitCount,
			BytesInRes: entry.BytesInRes,
			ID:         uint16(n + 1),
		}
		binary.Write(&buf, binary.LittleEndian, group)
	}

	return buf.Bytes()
}

// Returns the raw image blobs, one per RT_ICON resource.
func (i *Icon) Images() [][]byte {
	return i.images
}
