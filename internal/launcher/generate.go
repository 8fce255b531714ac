package launcher

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (

	// Maximum length of the command string a template can carry.
	MaxCommandLength = 259

	// Marker the stub resolves to its own directory at launch time. Because
	// every embedded path hangs off this marker, the finished app directory
	// is relocatable as a unit.
	ExeDirMarker = "{EXE_DIR}"

	// Console flag bytes appended after the command region.
	consoleShown  = '1'
	consoleHidden = '0'
)

// The reserved region a stub template must carry exactly once: a command
// area of MaxCommandLength 'X' bytes followed by the console flag byte.
func placeholder() []byte {
	return append(bytes.Repeat([]byte{'X'}, MaxCommandLength), consoleShown)
}

// Builds the launch command embedded into the stub.
//
// The command invokes the bundled interpreter against the staged entry
// point, with every path prefixed by [ExeDirMarker] so nothing absolute is
// baked in. Windowless builds use pythonw.exe. In package mode the
// interpreter is pointed at the staged source directory instead of a file.
func Command(runtimeSubdir, sourceSubdir, entryFile string, showConsole, runAsPackage bool) string {
	python := "pythonw.exe"
	if showConsole {
		python = "python.exe"
	}

	interpreter := ExeDirMarker + `\` + windowsPath(runtimeSubdir) + `\` + python

	if runAsPackage {
		return interpreter + " " + ExeDirMarker + `\` + windowsPath(sourceSubdir)
	}

	target := windowsPath(entryFile)
	if sourceSubdir != "" && sourceSubdir != "." {
		target = windowsPath(sourceSubdir) + `\` + target
	}
	return interpreter + " " + ExeDirMarker + `\` + target
}

// Converts a relative path to backslash separators for the Windows stub.
func windowsPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

// Synthesizes a launcher executable from a stub template.
//
// The template's placeholder region is replaced by the command and console
// flag, the result is written to outPath, and the icon resource is patched
// in when an icon is supplied.
func Generate(log hclog.Logger, templatePath, outPath, command string, showConsole bool, iconPath string) error {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("%w: read template %s: %w", ErrGenerate, templatePath, err)
	}

	log.Debug("generating launcher",
		"template", templatePath,
		"out", outPath,
		"command", command,
		"console", showConsole,
	)

	patched, err := Patch(template, command, showConsole)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, patched, 0755); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrGenerate, outPath, err)
	}

	if iconPath != "" {
		icon, err := ParseIcon(iconPath)
		if err != nil {
			return err
		}
		log.Debug("patching icon resource", "icon", iconPath, "images", len(icon.Images()))
		if err := updateIcon(outPath, icon); err != nil {
			return err
		}
	}

	return nil
}

// Replaces a template's placeholder region with the command and console
// flag.
//
// The command is NUL-padded to the full reserved length; the byte after it
// encodes console visibility. The command must be ASCII and no longer than
// [MaxCommandLength]: an oversized command is an explicit failure, never a
// silent truncation. The template must carry the placeholder exactly once.
func Patch(template []byte, command string, showConsole bool) ([]byte, error) {
	if len(command) > MaxCommandLength {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrCommandTooLong, len(command), MaxCommandLength)
	}
	for i := 0; i < len(command); i++ {
		if command[i] > 0x7f {
			return nil, fmt.Errorf("%w: command contains non-ASCII byte at offset %d", ErrGenerate, i)
		}
	}

	marker := placeholder()
	switch n := bytes.Count(template, marker); {
	case n == 0:
		return nil, ErrNoPlaceholder
	case n > 1:
		return nil, fmt.Errorf("%w: placeholder occurs %d times", ErrGenerate, n)
	}

	region := make([]byte, MaxCommandLength+1)
	copy(region, command)

	if showConsole {
		region[MaxCommandLength] = consoleShown
	} else {
		region[MaxCommandLength] = consoleHidden
	}

	return bytes.Replace(template, marker, region, 1), nil
}
