package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func makeEntry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	return path
}

func readEntry(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	return string(content)
}

func TestInjectHeadersWindowless(t *testing.T) {
	entry := makeEntry(t, "print('hi')\n")

	if err := InjectHeaders(hclog.NewNullLogger(), entry, true, false); err != nil {
		t.Fatalf("InjectHeaders: %v", err)
	}

	got := readEntry(t, entry)
	if !strings.HasPrefix(got, noConsoleHeader) {
		t.Error("windowless header missing from entry point")
	}
	if !strings.HasSuffix(got, "print('hi')\n") {
		t.Error("original content not preserved")
	}
	if strings.Contains(got, chdirHeader) {
		t.Error("chdir header injected without being requested")
	}
}

func TestInjectHeadersChdir(t *testing.T) {
	entry := makeEntry(t, "print('hi')\n")

	if err := InjectHeaders(hclog.NewNullLogger(), entry, false, true); err != nil {
		t.Fatalf("InjectHeaders: %v", err)
	}

	got := readEntry(t, entry)
	if !strings.HasPrefix(got, "import os\n"+chdirHeader) {
		t.Errorf("chdir header missing, got prefix %q", got[:40])
	}
}

func TestInjectHeadersBoth(t *testing.T) {
	entry := makeEntry(t, "print('hi')\n")

	if err := InjectHeaders(hclog.NewNullLogger(), entry, true, true); err != nil {
		t.Fatalf("InjectHeaders: %v", err)
	}

	got := readEntry(t, entry)
	if !strings.HasPrefix(got, noConsoleHeader+chdirHeader) {
		t.Error("combined headers not in expected order")
	}
	// The chdir header reuses the os import from the windowless header.
	if strings.Count(got, "import sys, os, pathlib") != 1 {
		t.Error("windowless import line duplicated")
	}
}

func TestInjectHeadersIdempotent(t *testing.T) {
	entry := makeEntry(t, "print('hi')\n")

	if err := InjectHeaders(hclog.NewNullLogger(), entry, true, true); err != nil {
		t.Fatalf("first InjectHeaders: %v", err)
	}
	first := readEntry(t, entry)

	if err := InjectHeaders(hclog.NewNullLogger(), entry, true, true); err != nil {
		t.Fatalf("second InjectHeaders: %v", err)
	}
	second := readEntry(t, entry)

	if first != second {
		t.Error("re-running injection modified the entry point")
	}
}

func TestInjectHeadersNothingToDo(t *testing.T) {
	entry := makeEntry(t, "print('hi')\n")

	if err := InjectHeaders(hclog.NewNullLogger(), entry, false, false); err != nil {
		t.Fatalf("InjectHeaders: %v", err)
	}

	if got := readEntry(t, entry); got != "print('hi')\n" {
		t.Errorf("entry modified: %q", got)
	}
}
