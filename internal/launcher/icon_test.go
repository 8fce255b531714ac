package launcher

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Builds a syntactically valid .ico file with the given image payloads.
func makeIcon(t *testing.T, images ...[]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, iconDir{
		Type:  1,
		Count: uint16(len(images)),
	})

	offset := 6 + 16*len(images)
	for i, img := range images {
		binary.Write(&buf, binary.LittleEndian, iconDirEntry{
			Width:      uint8(16 << i),
			Height:     uint8(16 << i),
			Planes:     1,
			BitCount:   32,
			BytesInRes: uint32(len(img)),
			ImageOff:   uint32(offset),
		})
		offset += len(img)
	}
	for _, img := range images {
		buf.Write(img)
	}
	return buf.Bytes()
}

func writeIcon(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.ico")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write icon: %v", err)
	}
	return path
}

func TestParseIcon(t *testing.T) {
	small := []byte("small image payload")
	large := []byte("a considerably larger image payload")
	path := writeIcon(t, makeIcon(t, small, large))

	icon, err := ParseIcon(path)
	if err != nil {
		t.Fatalf("ParseIcon: %v", err)
	}

	images := icon.Images()
	if len(images) != 2 {
		t.Fatalf("images = %d, want 2", len(images))
	}
	if !bytes.Equal(images[0], small) {
		t.Errorf("images[0] = %q, want %q", images[0], small)
	}
	if !bytes.Equal(images[1], large) {
		t.Errorf("images[1] = %q, want %q", images[1], large)
	}
}

func TestParseIconInvalid(t *testing.T) {
	cursor := makeIcon(t, []byte("img"))
	cursor[2] = 2 // type 2 is a cursor, not an icon

	truncatedDir := makeIcon(t, []byte("img"))[:10]

	outOfBounds := makeIcon(t, []byte("img"))
	outOfBounds = outOfBounds[:len(outOfBounds)-1]

	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"truncated header", []byte{0, 0, 1}},
		{"cursor file", cursor},
		{"zero images", makeIcon(t)},
		{"truncated directory", truncatedDir},
		{"image out of bounds", outOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIcon(writeIcon(t, tt.data))
			if !errors.Is(err, ErrGenerate) {
				t.Fatalf("err = %v, want ErrGenerate", err)
			}
		})
	}
}

func TestParseIconMissingFile(t *testing.T) {
	_, err := ParseIcon(filepath.Join(t.TempDir(), "nope.ico"))
	if !errors.Is(err, ErrGenerate) {
		t.Fatalf("err = %v, want ErrGenerate", err)
	}
}

func TestGroupData(t *testing.T) {
	path := writeIcon(t, makeIcon(t, []byte("one"), []byte("four")))

	icon, err := ParseIcon(path)
	if err != nil {
		t.Fatalf("ParseIcon: %v", err)
	}

	group := icon.GroupData()
	if want := 6 + 2*14; len(group) != want {
		t.Fatalf("len = %d, want %d", len(group), want)
	}

	r := bytes.NewReader(group)
	var header iconDir
	binary.Read(r, binary.LittleEndian, &header)
	if header.Type != 1 || header.Count != 2 {
		t.Fatalf("header = %+v, want type 1 count 2", header)
	}

	for i := 0; i < 2; i++ {
		var entry grpIconDirEntry
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			t.Fatalf("read entry %d: %v", i, err)
		}
		if want := uint16(i + 1); entry.ID != want {
			t.Errorf("entry %d: ID = %d, want %d", i, entry.ID, want)
		}
	}
}
