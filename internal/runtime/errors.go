package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrProvision = errors.New("provisioning failed")
	ErrInstall   = errors.New("dependency installation failed")
)

// Describes a child process that exited with a non-zero status.
//
// The full combined output is captured so install failures can be diagnosed
// without re-running the build.
type ExitError struct {
	Command  string // Command line that was executed.
	ExitCode int    // Exit status of the process.
	Output   string // Combined stdout and stderr.
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit code %d: %s", e.Command, e.ExitCode, tail(e.Output, 512))
}

// Returns the last n bytes of s, trimmed to the previous line boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[i+1:]
		}
	}
	return s
}
