// The launcher stub bundled into every packaged application.
//
// The packager patches the stub's command region with the launch command;
// at double-click time the stub resolves the {EXE_DIR} marker to its own
// directory, starts the bundled interpreter against the entry point, and
// propagates the exit code. All embedded paths are relative, so the app
// directory can be moved anywhere as a unit.
//
// Two flavors of the stub are shipped: a console-attached build and a
// windowless one (linked with -H windowsgui). Console visibility is a
// property of how the stub was linked and which interpreter it starts; the
// patched flag byte records the choice.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Marker replaced by the stub's own directory at launch time.
const exeDirMarker = "{EXE_DIR}"

func main() {
	if err := launch(); err != nil {
		fmt.Fprintln(os.Stderr, "launcher:", err)
		os.Exit(1)
	}
}

// Reads the patched command region, resolves it against the stub's
// location, and runs the interpreter.
func launch() error {
	command := strings.TrimRight(launchSpec[:commandLength], "\x00")

	// An unpatched stub still carries the placeholder.
	if strings.HasPrefix(command, "XXXX") {
		return fmt.Errorf("this launcher has not been configured")
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own path: %w", err)
	}
	command = strings.ReplaceAll(command, exeDirMarker, filepath.Dir(exe))

	parts := strings.Split(command, " ")
	if len(parts) == 0 || parts[0] == "" {
		return fmt.Errorf("empty launch command")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = filepath.Dir(exe)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}
