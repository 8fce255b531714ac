package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/build"
	"github.com/ruslan-rv-ua/py2winapp/internal/manifest"
)

// Represents the 'py2winapp build' command.
//
// Options come from three layers: built-in defaults, the project manifest,
// and command-line flags, each overriding the previous.
type BuildCmd struct {
	Manifest string `short:"m" help:"Project manifest file." placeholder:"PATH"`

	PythonVersion string   `help:"Embeddable Python version (x.y.z)." placeholder:"VERSION"`
	Arch          string   `help:"Target architecture: amd64, arm64, or win32."`
	Project       string   `short:"p" help:"Project root. Defaults to the current directory." placeholder:"DIR" type:"existingdir"`
	AppName       string   `help:"Application name. Defaults to the project directory name."`
	SourceDir     string   `help:"Source directory relative to the project root." placeholder:"DIR"`
	Ignore        []string `help:"Glob patterns excluded during staging."`
	Package       bool     `help:"Run the source directory as a package (__main__.py)."`
	MainFile      string   `help:"Entry-point file relative to the source directory."`
	AppDir        string   `help:"Application directory name under build/."`
	StageDir      string   `help:"Subdirectory the sources are staged into."`
	ShowConsole   bool     `help:"Attach a console window to the launched app."`
	Requirements  string   `short:"r" help:"Requirements file relative to the project root." placeholder:"FILE"`
	PipArg        []string `help:"Extra argument passed to pip install verbatim."`
	PythonDir     string   `help:"Runtime subdirectory inside the app directory."`
	ExeFile       string   `help:"Launcher file name."`
	Icon          string   `help:"Icon (.ico) patched into the launcher." placeholder:"FILE"`
	NoArchive     bool     `help:"Skip producing the distributable archive."`
	Format        string   `help:"Archive format: zip or tar.xz."`
	Template      string   `help:"Launcher stub template." placeholder:"FILE"`
	Digest        string   `help:"Expected runtime archive digest (sha256:<hex>)."`
	CacheDir      string   `help:"Download cache directory." placeholder:"DIR"`
	BaseURL       string   `help:"Runtime distribution mirror." placeholder:"URL"`
	GetPipURL     string   `help:"URL of the pip bootstrap script." placeholder:"URL"`
	PruneCache    bool     `help:"Remove leftover partial downloads after the build."`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context, log hclog.Logger) error {
	opts, err := c.options(log)
	if err != nil {
		return err
	}

	result, err := build.Run(ctx, log, opts)
	if err != nil {
		return err
	}

	fmt.Println(result.AppDirPath)
	if result.ArchivePath != "" {
		fmt.Println(result.ArchivePath)
	}
	return nil
}

// Assembles build options from the manifest and flag overrides.
//
// An explicitly configured manifest must exist; the default manifest is
// only picked up when present in the project root.
func (c *BuildCmd) options(log hclog.Logger) (build.Options, error) {
	var opts build.Options

	path := c.Manifest
	if path == "" {
		project := c.Project
		if project == "" {
			project = "."
		}
		candidate := filepath.Join(project, manifest.DefaultFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		m, err := manifest.Load(path)
		if err != nil {
			return opts, err
		}
		log.Debug("loaded manifest", "path", path)
		opts = manifestOptions(m)
	}

	c.override(&opts)
	return opts, nil
}

// Maps a parsed manifest onto build options.
func manifestOptions(m *manifest.Manifest) build.Options {
	return build.Options{
		PythonVersion: m.PythonVersion,
		Arch:          m.Arch,
		AppName:       m.AppName,
		SourceDir:     m.SourceDir,
		Ignore:        m.Ignore,
		RunAsPackage:  m.RunAsPackage,
		MainFile:      m.MainFile,
		AppDir:        m.AppDir,
		StageDir:      m.StageDir,
		ShowConsole:   m.ShowConsole,
		Requirements:  m.Requirements,
		PipArgs:       m.PipArgs,
		PythonDir:     m.PythonDir,
		ExeFile:       m.ExeFile,
		IconFile:      m.IconFile,
		NoArchive:     m.NoArchive,
		Format:        m.Format,
		Template:      m.Template,
		Digest:        m.Digest,
	}
}

// Applies non-zero flag values on top of the manifest options.
func (c *BuildCmd) override(opts *build.Options) {
	setString(&opts.PythonVersion, c.PythonVersion)
	setString(&opts.Arch, c.Arch)
	setString(&opts.ProjectPath, c.Project)
	setString(&opts.AppName, c.AppName)
	setString(&opts.SourceDir, c.SourceDir)
	setString(&opts.MainFile, c.MainFile)
	setString(&opts.AppDir, c.AppDir)
	setString(&opts.StageDir, c.StageDir)
	setString(&opts.Requirements, c.Requirements)
	setString(&opts.PythonDir, c.PythonDir)
	setString(&opts.ExeFile, c.ExeFile)
	setString(&opts.IconFile, c.Icon)
	setString(&opts.Format, c.Format)
	setString(&opts.Template, c.Template)
	setString(&opts.Digest, c.Digest)
	setString(&opts.CacheDir, c.CacheDir)
	setString(&opts.BaseURL, c.BaseURL)
	setString(&opts.GetPipURL, c.GetPipURL)

	if len(c.Ignore) > 0 {
		opts.Ignore = c.Ignore
	}
	if len(c.PipArg) > 0 {
		opts.PipArgs = c.PipArg
	}
	if c.Package {
		opts.RunAsPackage = true
	}
	if c.ShowConsole {
		opts.ShowConsole = true
	}
	if c.NoArchive {
		opts.NoArchive = true
	}
	if c.PruneCache {
		opts.PruneCache = true
	}
}

// Overwrites dest when the flag value is set.
func setString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}
