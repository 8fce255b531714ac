package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Writes an executable shell script into a temp dir and returns its path.
func makeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+content), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	requireUnix(t)

	script := makeScript(t, "echo one\necho two >&2\n")

	out, err := run(context.Background(), hclog.NewNullLogger(), filepath.Dir(script), script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Errorf("output = %q, want both streams captured", out)
	}
}

func TestRunLongLine(t *testing.T) {
	requireUnix(t)

	// A single line well past bufio.Scanner's 64 KB default. The child's
	// writes must never block on a vanished reader.
	script := makeScript(t, "head -c 200000 /dev/zero | tr '\\0' 'a'\necho\necho done\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := run(ctx, hclog.NewNullLogger(), filepath.Dir(script), script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) < 200000 {
		t.Errorf("output = %d bytes, want the full long line captured", len(out))
	}
	if !strings.Contains(out, "done") {
		t.Errorf("output does not reach the final line: %d bytes", len(out))
	}
}

func TestRunLineBeyondCap(t *testing.T) {
	requireUnix(t)

	// A line past even the raised scanner cap: streaming stops but the
	// pipe is drained to the end, so the child finishes and run returns.
	script := makeScript(t, "head -c 2097153 /dev/zero | tr '\\0' 'a'\necho\necho done\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := run(ctx, hclog.NewNullLogger(), filepath.Dir(script), script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("output does not reach the final line: %d bytes", len(out))
	}
}

func TestRunCancelled(t *testing.T) {
	requireUnix(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := run(ctx, hclog.NewNullLogger(), t.TempDir(), "sleep", "60")
	if err == nil {
		t.Fatal("run returned nil after cancellation")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run took %v to return after cancellation", elapsed)
	}
}
