package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/archive"
	"github.com/ruslan-rv-ua/py2winapp/internal/fetch"
	"github.com/ruslan-rv-ua/py2winapp/internal/launcher"
	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
	"github.com/ruslan-rv-ua/py2winapp/internal/runtime"
	"github.com/ruslan-rv-ua/py2winapp/internal/staging"
)

// Executes the full packaging pipeline.
//
// Options are resolved into an immutable configuration, then the stages
// run in order: stage sources, fetch the runtime, provision it, install
// dependencies, generate the launcher, finalize. Any failure aborts the
// pipeline with the stage name in the error; partial output is left on
// disk and re-running with the same options is the recovery path, since
// every stage is idempotent.
func Run(ctx context.Context, log hclog.Logger, opts Options) (*Result, error) {
	cfg, err := Resolve(opts)
	if err != nil {
		return nil, err
	}

	log.Info("building application",
		"app", cfg.AppName,
		"python", cfg.PythonVersion,
		"arch", cfg.Arch,
		"out", cfg.AppDirPath,
	)

	fetcher := fetch.New(log.Named("fetch"), cfg.CacheDir)
	if cfg.BaseURL != "" {
		fetcher.BaseURL = cfg.BaseURL
	}
	if cfg.GetPipURL != "" {
		fetcher.GetPipURL = cfg.GetPipURL
	}
	fetcher.Digest = cfg.Digest

	b := &builder{cfg: cfg, log: log, fetcher: fetcher}

	steps := []step{
		{"prepare build directory", b.prepare},
		{"stage sources", b.stageSources},
		{"fetch runtime", b.fetchRuntime},
		{"provision runtime", b.provisionRuntime},
		{"install dependencies", b.installDependencies},
		{"generate launcher", b.generateLauncher},
		{"finalize", b.finalize},
	}

	for _, s := range steps {
		log.Info(s.name)
		if err := s.run(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	log.Info("build complete", "app", cfg.AppDirPath)

	return &Result{Config: *cfg, ArchivePath: b.archivePath}, nil
}

// Holds state accumulated while the stages run.
type builder struct {
	cfg     *Config
	log     hclog.Logger
	fetcher *fetch.Fetcher

	runtimeArchive string // Cached runtime archive, set by the fetch stage.
	archivePath    string // Distributable archive, set by finalize.
}

// Creates the build, dist, and cache directories and clears any previous
// contents of the application directory, so every run starts from a clean
// output tree.
func (b *builder) prepare(ctx context.Context) error {
	dirs := []string{b.cfg.BuildDir, b.cfg.CacheDir}
	if b.cfg.MakeArchive {
		dirs = append(dirs, b.cfg.DistDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(b.cfg.AppDirPath); err != nil {
		return err
	}
	return os.MkdirAll(b.cfg.AppDirPath, paths.DefaultDirMode)
}

// Copies the filtered source tree into the app directory, verifies the
// entry point survived the copy, and prepends its runtime headers.
func (b *builder) stageSources(ctx context.Context) error {
	if err := staging.Stage(b.log.Named("stage"), b.cfg.SourcePath, b.cfg.StageDirPath, b.cfg.Ignore); err != nil {
		return err
	}
	if err := staging.CheckEntryPoint(b.cfg.StageDirPath, b.cfg.MainFile); err != nil {
		return err
	}

	entryPath := filepath.Join(b.cfg.StageDirPath, b.cfg.MainFile)
	chdir := b.cfg.StageDirPath != b.cfg.AppDirPath
	return staging.InjectHeaders(b.log.Named("stage"), entryPath, !b.cfg.ShowConsole, chdir)
}

// Downloads (or reuses from cache) the runtime archive and extracts it
// into the app's runtime directory.
func (b *builder) fetchRuntime(ctx context.Context) error {
	archivePath, err := b.fetcher.Runtime(ctx, b.cfg.PythonVersion, b.cfg.Arch)
	if err != nil {
		return err
	}
	b.runtimeArchive = archivePath

	return b.fetcher.Extract(archivePath, b.cfg.PythonDirPath)
}

// Provisions the extracted runtime: path configuration, stdlib expansion,
// and pip bootstrap.
func (b *builder) provisionRuntime(ctx context.Context) error {
	getPip, err := b.fetcher.GetPip(ctx)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(b.cfg.PythonDirPath, b.cfg.StageDirPath)
	if err != nil {
		return err
	}

	// The path configuration file is read by the Windows runtime; it wants
	// backslash separators regardless of the build host.
	sourceRef := strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)

	p := runtime.NewProvisioner(
		b.log.Named("provision"),
		b.cfg.PythonDirPath,
		b.cfg.PythonVersion,
		sourceRef,
	)
	return p.Provision(ctx, getPip)
}

// Installs the resolved requirements into the provisioned runtime.
func (b *builder) installDependencies(ctx context.Context) error {
	return runtime.InstallRequirements(
		ctx,
		b.log.Named("pip"),
		b.cfg.PythonDirPath,
		b.cfg.RequirementsPath,
		b.cfg.PipArgs,
	)
}

// Patches the launcher stub with the relative launch command and writes it
// into the app directory.
func (b *builder) generateLauncher(ctx context.Context) error {
	template, err := launcher.FindTemplate(b.cfg.TemplatePath, b.cfg.ShowConsole)
	if err != nil {
		return err
	}

	command := launcher.Command(
		b.cfg.PythonDirName,
		b.cfg.StageDirName,
		b.cfg.MainFile,
		b.cfg.ShowConsole,
		b.cfg.RunAsPackage,
	)

	return launcher.Generate(
		b.log.Named("launcher"),
		template,
		b.cfg.ExePath,
		command,
		b.cfg.ShowConsole,
		b.cfg.IconPath,
	)
}

// Produces the distributable archive and optionally prunes leftover
// partial downloads from the cache.
func (b *builder) finalize(ctx context.Context) error {
	if b.cfg.MakeArchive {
		dest := filepath.Join(b.cfg.DistDir, b.cfg.AppDirName+"."+b.cfg.Format)
		b.log.Info("creating archive", "path", dest)

		var err error
		switch b.cfg.Format {
		case FormatTarXz:
			err = archive.CreateTarXz(dest, b.cfg.AppDirPath, b.cfg.AppDirName)
		default:
			err = archive.CreateZip(dest, b.cfg.AppDirPath, b.cfg.AppDirName)
		}
		if err != nil {
			return err
		}
		b.archivePath = dest
	}

	if b.cfg.PruneCache {
		n, err := fetch.PruneCache(b.cfg.CacheDir)
		if err != nil {
			return err
		}
		if n > 0 {
			b.log.Debug("pruned partial downloads", "count", n)
		}
	}

	return nil
}
