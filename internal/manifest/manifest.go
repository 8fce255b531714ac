package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default manifest file name, looked up in the project root.
const DefaultFile = "py2winapp.yaml"

// A project manifest.
//
// Every field mirrors a build option; unset fields fall back to the build
// defaults, and command-line flags override manifest values. The manifest
// is deliberately dumb: it is parsed and handed over, nothing more.
type Manifest struct {
	PythonVersion string   `yaml:"python-version"`
	Arch          string   `yaml:"arch"`
	AppName       string   `yaml:"app-name"`
	SourceDir     string   `yaml:"source-dir"`
	Ignore        []string `yaml:"ignore"`
	RunAsPackage  bool     `yaml:"run-as-package"`
	MainFile      string   `yaml:"main-file"`
	AppDir        string   `yaml:"app-dir"`
	StageDir      string   `yaml:"stage-dir"`
	ShowConsole   bool     `yaml:"show-console"`
	Requirements  string   `yaml:"requirements"`
	PipArgs       []string `yaml:"pip-args"`
	PythonDir     string   `yaml:"python-dir"`
	ExeFile       string   `yaml:"exe-file"`
	IconFile      string   `yaml:"icon-file"`
	NoArchive     bool     `yaml:"no-archive"`
	Format        string   `yaml:"format"`
	Template      string   `yaml:"template"`
	Digest        string   `yaml:"digest"`
}

// Loads a manifest from a yaml file.
//
// Unknown fields are rejected so a typoed option name fails loudly instead
// of being silently dropped.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
