package runtime

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Installs resolved requirements into a provisioned runtime.
//
// The requirements file is consumed verbatim by pip; this function performs
// no dependency resolution of its own. An unset requirements path, or a
// file containing only blank and comment lines, is a valid zero-dependency
// configuration: pip is not invoked at all. Extra arguments are passed
// through to pip unmodified, after the requirements file.
//
// A non-zero pip exit returns an error wrapping [ErrInstall] and must abort
// the surrounding pipeline.
func InstallRequirements(ctx context.Context, log hclog.Logger, runtimeDir, requirementsFile string, extraArgs []string) error {
	if requirementsFile == "" {
		log.Info("no requirements file configured, skipping dependency installation")
		return nil
	}

	empty, err := requirementsEmpty(requirementsFile)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrInstall, requirementsFile, err)
	}
	if empty {
		log.Info("requirements file is empty, skipping dependency installation",
			"file", requirementsFile)
		return nil
	}

	scriptsDir := filepath.Join(runtimeDir, ScriptsDir)
	pip := filepath.Join(scriptsDir, PipExe)

	args := []string{"install", "--no-cache-dir", "--no-warn-script-location", "-r", requirementsFile}
	args = append(args, extraArgs...)

	log.Info("installing requirements", "file", requirementsFile)

	if _, err := run(ctx, log, scriptsDir, pip, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	return nil
}

// Reports whether a requirements file contains no dependency specifiers.
func requirementsEmpty(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return false, nil
		}
	}
	return true, nil
}
