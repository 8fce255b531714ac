package build

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/opencontainers/go-digest"

	"github.com/ruslan-rv-ua/py2winapp/internal/launcher"
	"github.com/ruslan-rv-ua/py2winapp/internal/manifest"
	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

const (
	defaultBuildDir  = "build"
	defaultDistDir   = "dist"
	defaultPythonDir = "python"
	defaultMainFile  = "main.py"
	packageMainFile  = "__main__.py"
	defaultArch      = "amd64"

	FormatZip   = "zip"
	FormatTarXz = "tar.xz"
)

// Architectures the embeddable distribution is published for.
var supportedArchs = map[string]bool{
	"amd64": true,
	"arm64": true,
	"win32": true,
}

// Runtime versions must be fully pinned; the version is a URL component.
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// A fully resolved, immutable build configuration.
//
// Every path is absolute and every default is materialized before the
// first pipeline stage runs. Stages consume the configuration and never
// mutate it; no stage re-resolves a relative path.
type Config struct {
	PythonVersion string
	Arch          string

	ProjectPath string // Absolute project root.
	AppName     string // Human-readable application name.
	AppSlug     string // Filesystem-safe identifier derived from the app name.

	SourceDir  string // Input source directory name, relative to the project root.
	SourcePath string // Absolute input source directory.

	RunAsPackage bool
	MainFile     string
	Ignore       []string // Fully materialized ignore patterns, including self-copy guards.

	BuildDir string // Absolute build root (<project>/build).
	DistDir  string // Absolute dist root (<project>/dist).

	AppDirName string // Application directory name under the build root.
	AppDirPath string // Absolute application directory.

	PythonDirName string // Runtime subdirectory name inside the app directory.
	PythonDirPath string // Absolute runtime directory.

	StageDirName string // Staged source subdirectory name inside the app directory, "." for the app directory itself.
	StageDirPath string // Absolute staged source directory.

	RequirementsPath string // Absolute requirements file, empty for zero dependencies.
	PipArgs          []string

	ExeFile string // Launcher file name.
	ExePath string // Absolute launcher path.

	IconPath    string // Absolute icon path, empty when no icon is configured.
	ShowConsole bool

	MakeArchive bool
	Format      string

	TemplatePath string // Explicit stub template, empty for search-path lookup.

	Digest     digest.Digest // Expected runtime archive digest, empty disables verification.
	CacheDir   string        // Absolute persistent cache directory.
	BaseURL    string        // Runtime distribution URL root, empty for the default.
	GetPipURL  string        // Pip bootstrap script URL, empty for the default.
	PruneCache bool
}

// Produced once at the end of a successful build; the sole object external
// callers inspect.
type Result struct {
	Config

	ArchivePath string // Absolute path of the distributable archive, empty when archiving was disabled.
}

// Resolves options into a validated [Config].
//
// All defaults are applied, every path is made absolute, and every
// cross-field constraint is checked here, before any stage runs: version
// format, supported architecture, existence of the project, source
// directory and entry point, requirements file presence when explicitly
// configured, and icon validity.
func Resolve(opts Options) (*Config, error) {
	if opts.PythonVersion == "" {
		return nil, fmt.Errorf("%w: python version is required", ErrConfig)
	}
	if !versionPattern.MatchString(opts.PythonVersion) {
		return nil, fmt.Errorf("%w: python version %q is not of the form x.y.z", ErrConfig, opts.PythonVersion)
	}

	arch := opts.Arch
	if arch == "" {
		arch = defaultArch
	}
	if !supportedArchs[arch] {
		return nil, fmt.Errorf("%w: unsupported architecture %q", ErrConfig, arch)
	}

	format := opts.Format
	if format == "" {
		format = FormatZip
	}
	if format != FormatZip && format != FormatTarXz {
		return nil, fmt.Errorf("%w: unsupported archive format %q", ErrConfig, format)
	}

	cfg := &Config{
		PythonVersion: opts.PythonVersion,
		Arch:          arch,
		RunAsPackage:  opts.RunAsPackage,
		PipArgs:       opts.PipArgs,
		ShowConsole:   opts.ShowConsole,
		MakeArchive:   !opts.NoArchive,
		Format:        format,
		BaseURL:       opts.BaseURL,
		GetPipURL:     opts.GetPipURL,
		PruneCache:    opts.PruneCache,
	}

	if err := resolveProject(cfg, opts); err != nil {
		return nil, err
	}
	if err := resolveLayout(cfg, opts); err != nil {
		return nil, err
	}
	if err := resolveEntryPoint(cfg, opts); err != nil {
		return nil, err
	}
	if err := resolveRequirements(cfg, opts); err != nil {
		return nil, err
	}
	if err := resolveLauncher(cfg, opts); err != nil {
		return nil, err
	}
	if err := resolveCache(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolves the project root, app naming, and input source directory.
func resolveProject(cfg *Config, opts Options) error {
	project := opts.ProjectPath
	if project == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: resolve working directory: %w", ErrConfig, err)
		}
		project = cwd
	}

	project, err := filepath.Abs(project)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := requireDir(project, "project path"); err != nil {
		return err
	}
	cfg.ProjectPath = project

	cfg.AppName = opts.AppName
	if cfg.AppName == "" {
		cfg.AppName = filepath.Base(project)
	}
	cfg.AppSlug = slug.Make(cfg.AppName)

	cfg.SourceDir = opts.SourceDir
	if cfg.SourceDir == "" {
		cfg.SourceDir = strings.ReplaceAll(filepath.Base(project), "-", "_")
	}
	cfg.SourcePath = filepath.Join(project, cfg.SourceDir)
	return requireDir(cfg.SourcePath, "source directory")
}

// Resolves the build output layout: build/dist roots, app directory,
// runtime and staged source subdirectories, and the ignore pattern set.
func resolveLayout(cfg *Config, opts Options) error {
	cfg.BuildDir = filepath.Join(cfg.ProjectPath, defaultBuildDir)
	cfg.DistDir = filepath.Join(cfg.ProjectPath, defaultDistDir)

	cfg.AppDirName = opts.AppDir
	if cfg.AppDirName == "" {
		cfg.AppDirName = cfg.AppSlug
	}
	cfg.AppDirPath = filepath.Join(cfg.BuildDir, cfg.AppDirName)

	cfg.PythonDirName = opts.PythonDir
	if cfg.PythonDirName == "" {
		cfg.PythonDirName = defaultPythonDir
	}
	cfg.PythonDirPath = filepath.Join(cfg.AppDirPath, cfg.PythonDirName)

	switch {
	case cfg.RunAsPackage:
		cfg.StageDirName = cfg.AppSlug
	case opts.StageDir != "":
		cfg.StageDirName = opts.StageDir
	default:
		cfg.StageDirName = "."
	}
	cfg.StageDirPath = filepath.Join(cfg.AppDirPath, cfg.StageDirName)

	// Guard against recursive self-copies when the source directory is the
	// project root: the build outputs and the manifest never get staged.
	cfg.Ignore = append([]string{}, opts.Ignore...)
	cfg.Ignore = append(cfg.Ignore, defaultBuildDir, defaultDistDir, manifest.DefaultFile)
	return nil
}

// Resolves the entry-point file name and verifies it exists in the input
// source tree.
func resolveEntryPoint(cfg *Config, opts Options) error {
	if cfg.RunAsPackage {
		cfg.MainFile = packageMainFile
	} else {
		cfg.MainFile = opts.MainFile
		if cfg.MainFile == "" {
			cfg.MainFile = defaultMainFile
		}
	}

	mainPath := filepath.Join(cfg.SourcePath, cfg.MainFile)
	info, err := os.Stat(mainPath)
	if err != nil {
		return fmt.Errorf("%w: entry point %s: %w", ErrConfig, mainPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: entry point %s is a directory", ErrConfig, mainPath)
	}
	return nil
}

// Resolves the requirements file.
//
// An explicitly configured file must exist. The default file is only
// picked up when present; its absence means zero dependencies.
func resolveRequirements(cfg *Config, opts Options) error {
	if opts.Requirements != "" {
		p := filepath.Join(cfg.ProjectPath, opts.Requirements)
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: requirements file %s: %w", ErrConfig, p, err)
		}
		cfg.RequirementsPath = p
		return nil
	}

	p := filepath.Join(cfg.ProjectPath, "requirements.txt")
	if _, err := os.Stat(p); err == nil {
		cfg.RequirementsPath = p
	}
	return nil
}

// Resolves the launcher file name, template, and icon.
func resolveLauncher(cfg *Config, opts Options) error {
	exe := opts.ExeFile
	if exe == "" {
		exe = cfg.AppSlug + ".exe"
	} else {
		exe = strings.ToLower(strings.TrimSpace(exe))
		if !strings.HasSuffix(exe, ".exe") {
			exe += ".exe"
		}
	}
	cfg.ExeFile = exe
	cfg.ExePath = filepath.Join(cfg.AppDirPath, exe)

	if opts.Template != "" {
		p, err := filepath.Abs(opts.Template)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: launcher template %s: %w", ErrConfig, p, err)
		}
		cfg.TemplatePath = p
	}

	if opts.IconFile != "" {
		p := opts.IconFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.ProjectPath, p)
		}
		// Parse up front so a broken icon fails before any stage runs.
		if _, err := launcher.ParseIcon(p); err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
		cfg.IconPath = p
	}
	return nil
}

// Resolves the download cache location and the expected archive digest.
func resolveCache(cfg *Config, opts Options) error {
	if opts.Digest != "" {
		d, err := digest.Parse(opts.Digest)
		if err != nil {
			return fmt.Errorf("%w: digest %q: %w", ErrConfig, opts.Digest, err)
		}
		cfg.Digest = d
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = paths.RuntimeCache()
	}
	cacheDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cfg.CacheDir = cacheDir
	return nil
}

// Fails unless the path exists and is a directory.
func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrConfig, what, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s %s is not a directory", ErrConfig, what, path)
	}
	return nil
}
