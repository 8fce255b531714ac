package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/archive"
	"github.com/ruslan-rv-ua/py2winapp/internal/fetch"
)

const (

	// Interpreter binary inside the embeddable distribution.
	PythonExe = "python.exe"

	// Windowless interpreter binary, used when the console is hidden.
	PythonwExe = "pythonw.exe"

	// Directory pip installs its console scripts into, relative to the
	// runtime directory. Its presence after bootstrap proves pip landed.
	ScriptsDir = "Scripts"

	// The pip binary used for dependency installation, relative to
	// [ScriptsDir].
	PipExe = "pip3.exe"

	// Temporary name the stdlib archive is moved to while it is expanded
	// into a directory of its original name.
	tempZipSuffix = ".temp_zip"
)

// Mutates an extracted embeddable runtime tree into one capable of
// installing and importing third-party packages.
//
// Every operation is idempotent: re-running provisioning on an already
// provisioned tree is a no-op, which makes the surrounding pipeline safe to
// retry after a partial failure.
type Provisioner struct {
	Dir        string // Extracted runtime tree, mutated in place.
	Version    string // Full runtime version, e.g. "3.11.4".
	SourcePath string // Path from the runtime dir to the staged source, backslash-separated.

	log hclog.Logger
}

// Creates a new [Provisioner] for a runtime tree.
func NewProvisioner(log hclog.Logger, dir, version, sourcePath string) *Provisioner {
	return &Provisioner{
		Dir:        dir,
		Version:    version,
		SourcePath: sourcePath,
		log:        log,
	}
}

// Provisions the runtime tree.
//
// Rewrites the path configuration file so installed packages become
// importable, expands the stdlib archive, and bootstraps pip using the
// runtime's own interpreter against the given get-pip.py script.
func (p *Provisioner) Provision(ctx context.Context, getPipPath string) error {
	if err := p.writePathConfig(); err != nil {
		return err
	}
	if err := p.expandStdlib(); err != nil {
		return err
	}
	return p.bootstrapPip(ctx, getPipPath)
}

// Returns the major+minor version digits used in embeddable distribution
// file names (e.g., "3.11.4" becomes "311").
func (p *Provisioner) shortVersion() string {
	parts := strings.SplitN(p.Version, ".", 3)
	if len(parts) < 2 {
		return strings.ReplaceAll(p.Version, ".", "")
	}
	return parts[0] + parts[1]
}

// Name of the path configuration file (e.g., "python311._pth").
func (p *Provisioner) pthFile() string {
	return "python" + p.shortVersion() + "._pth"
}

// Name of the stdlib archive (e.g., "python311.zip").
func (p *Provisioner) stdlibZip() string {
	return "python" + p.shortVersion() + ".zip"
}

// Rewrites the runtime's path configuration file.
//
// The stock embeddable distribution ships the "._pth" file with the site
// import disabled, which prevents discovery of installed packages. The
// rewritten file lists the stdlib archive, the relative path to the staged
// source, and an active "import site" line. The write is skipped when the
// file already has the desired content.
func (p *Provisioner) writePathConfig() error {
	path := filepath.Join(p.Dir, p.pthFile())

	content := p.stdlibZip() + "\n" +
		p.SourcePath + "\n" +
		"\n" +
		"# Uncomment to run site.main() automatically\n" +
		"import site\n"

	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		p.log.Debug("path configuration already provisioned", "file", path)
		return nil
	}

	p.log.Debug("writing path configuration", "file", path, "source", p.SourcePath)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrProvision, path, err)
	}
	return nil
}

// Expands the stdlib archive into a directory of the same name.
//
// The archive is renamed aside, extracted into a directory carrying the
// original archive name, then deleted. Skipped when the name already refers
// to a directory (a previous run finished the expansion).
func (p *Provisioner) expandStdlib() error {
	zipPath := filepath.Join(p.Dir, p.stdlibZip())

	info, err := os.Stat(zipPath)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrProvision, zipPath, err)
	}
	if info.IsDir() {
		p.log.Debug("stdlib already expanded", "dir", zipPath)
		return nil
	}

	p.log.Debug("expanding stdlib archive", "archive", zipPath)

	tempPath := zipPath + tempZipSuffix
	if err := os.Rename(zipPath, tempPath); err != nil {
		return fmt.Errorf("%w: rename stdlib archive: %w", ErrProvision, err)
	}
	if err := archive.Unzip(tempPath, zipPath); err != nil {
		return fmt.Errorf("%w: expand stdlib: %w", ErrProvision, err)
	}
	if err := os.Remove(tempPath); err != nil {
		return fmt.Errorf("%w: remove stdlib archive: %w", ErrProvision, err)
	}
	return nil
}

// Bootstraps pip into the runtime.
//
// The get-pip.py script is copied beside the interpreter and executed by
// the runtime's own python.exe, so the very interpreter being provisioned
// installs its own package manager. The script is removed afterwards so it
// does not ship in the final tree. Skipped when pip is already present.
func (p *Provisioner) bootstrapPip(ctx context.Context, getPipPath string) error {
	pipPath := filepath.Join(p.Dir, ScriptsDir, PipExe)
	if _, err := os.Stat(pipPath); err == nil {
		p.log.Debug("pip already bootstrapped", "path", pipPath)
		return nil
	}

	local := filepath.Join(p.Dir, fetch.GetPipFile)
	if err := copyFile(getPipPath, local); err != nil {
		return fmt.Errorf("%w: copy %s: %w", ErrProvision, fetch.GetPipFile, err)
	}

	p.log.Info("bootstrapping pip")

	python := filepath.Join(p.Dir, PythonExe)
	if _, err := run(ctx, p.log, p.Dir, python, fetch.GetPipFile, "--no-warn-script-location"); err != nil {
		return fmt.Errorf("%w: %w", ErrProvision, err)
	}

	if _, err := os.Stat(filepath.Join(p.Dir, ScriptsDir)); err != nil {
		return fmt.Errorf("%w: %s missing after pip bootstrap", ErrProvision, ScriptsDir)
	}

	if err := os.Remove(local); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrProvision, fetch.GetPipFile, err)
	}
	return nil
}

// Copies a file, preserving its mode.
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
