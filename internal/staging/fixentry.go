package staging

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// File the entry point's stderr is redirected into when the console is
// hidden, created beside the entry point at runtime.
const StderrFile = "stderr.log"

// Header prepended when the app runs windowless. pythonw.exe has no
// standard streams, so an unmodified script would crash on its first
// print: stdout is discarded and stderr goes to a log file beside the
// entry point.
const noConsoleHeader = "import sys, os, pathlib\n" +
	"if sys.executable.endswith('pythonw.exe'):\n" +
	"    sys.stdout = open(os.devnull, 'w')\n" +
	"    sys.stderr = (pathlib.Path(__file__).parent / '" + StderrFile + "').open('w')\n\n"

// Header prepended when the staged source lives in a subdirectory of the
// app root, so relative file access in the app resolves against its own
// sources rather than wherever the launcher was started.
const chdirHeader = "os.chdir(os.path.dirname(__file__))\n\n"

// Prepends runtime headers to the staged entry-point file.
//
// Each header is only added when not already present, so re-running the
// pipeline over an existing staged tree leaves the file unchanged.
func InjectHeaders(log hclog.Logger, entryPath string, hideConsole, chdir bool) error {
	if !hideConsole && !chdir {
		return nil
	}

	content, err := os.ReadFile(entryPath)
	if err != nil {
		return fmt.Errorf("%w: read entry point: %w", ErrStaging, err)
	}
	text := string(content)

	var header strings.Builder
	if hideConsole && !strings.Contains(text, noConsoleHeader) {
		log.Debug("injecting windowless stream redirection header", "file", entryPath)
		header.WriteString(noConsoleHeader)
	}
	if chdir {
		h := chdirHeader
		if header.Len() == 0 {
			// The chdir header relies on the os import from the windowless
			// header when both are present.
			h = "import os\n" + h
		}
		if !strings.Contains(text, chdirHeader) {
			log.Debug("injecting working directory header", "file", entryPath)
			header.WriteString(h)
		}
	}

	if header.Len() == 0 {
		return nil
	}

	if err := os.WriteFile(entryPath, []byte(header.String()+text), 0644); err != nil {
		return fmt.Errorf("%w: write entry point: %w", ErrStaging, err)
	}
	return nil
}
