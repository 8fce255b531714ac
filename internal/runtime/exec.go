package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Longest single output line streamed to the logger. Longer lines stop
// line-by-line streaming; the remaining output is still captured raw.
const maxOutputLine = 1 << 20

// Runs a command, streaming its combined output to the logger.
//
// Output lines are logged at Debug as they arrive rather than buffered, so
// long-running installs give live progress. The full combined output is
// also captured and returned. A non-zero exit status is returned as an
// [*ExitError] carrying the command line, exit code, and captured output.
func run(ctx context.Context, log hclog.Logger, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	command := strings.Join(append([]string{name}, args...), " ")
	log.Debug("exec", "command", command, "dir", dir)

	if err := cmd.Start(); err != nil {
		pw.Close()
		return "", fmt.Errorf("start %s: %w", command, err)
	}

	var output strings.Builder
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), maxOutputLine)
		for scanner.Scan() {
			line := scanner.Text()
			output.WriteString(line)
			output.WriteByte('\n')
			log.Debug(line)
		}
		if err := scanner.Err(); err != nil {
			// The pipe must be drained to EOF regardless: a blocked writer
			// would keep cmd.Wait from ever returning.
			log.Warn("output streaming interrupted", "command", command, "error", err)
			io.Copy(&output, pr)
		}
	}()

	err := cmd.Wait()
	pw.Close()
	wg.Wait()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output.String(), &ExitError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Output:   output.String(),
			}
		}
		return output.String(), fmt.Errorf("run %s: %w", command, err)
	}

	return output.String(), nil
}
