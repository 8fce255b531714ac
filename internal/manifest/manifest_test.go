package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
python-version: 3.11.4
arch: amd64
app-name: Demo App
source-dir: src
ignore:
  - "*.log"
  - docs
run-as-package: true
stage-dir: app
requirements: deps.txt
pip-args:
  - --no-deps
show-console: true
format: tar.xz
digest: sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.PythonVersion != "3.11.4" {
		t.Errorf("PythonVersion = %q, want %q", m.PythonVersion, "3.11.4")
	}
	if m.AppName != "Demo App" {
		t.Errorf("AppName = %q, want %q", m.AppName, "Demo App")
	}
	if want := []string{"*.log", "docs"}; !reflect.DeepEqual(m.Ignore, want) {
		t.Errorf("Ignore = %v, want %v", m.Ignore, want)
	}
	if !m.RunAsPackage {
		t.Error("RunAsPackage = false, want true")
	}
	if m.StageDir != "app" {
		t.Errorf("StageDir = %q, want %q", m.StageDir, "app")
	}
	if want := []string{"--no-deps"}; !reflect.DeepEqual(m.PipArgs, want) {
		t.Errorf("PipArgs = %v, want %v", m.PipArgs, want)
	}
	if !m.ShowConsole {
		t.Error("ShowConsole = false, want true")
	}
	if m.Format != "tar.xz" {
		t.Errorf("Format = %q, want %q", m.Format, "tar.xz")
	}
}

func TestLoadUnknownField(t *testing.T) {
	path := writeManifest(t, "python-version: 3.11.4\npyton-versoin: oops\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted an unknown field")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeManifest(t, "python-version: [\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}
