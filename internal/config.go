package internal

import (
	"strconv"
	"sync/atomic"
)

var (
	quietMode   atomic.Bool // Suppress informational output.
	debugMode   atomic.Bool // Emit debug logging.
	verboseMode atomic.Bool // Emit verbose logging.
)

// Parses the default output modes baked in via ldflags. Unset or unparsable
// values leave the modes off; command-line flags can still enable them.
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
}

// Reports whether quiet mode was enabled at build time.
func IsQuiet() bool {
	return quietMode.Load()
}

// Reports whether debug logging was enabled at build time.
func IsDebug() bool {
	return debugMode.Load()
}

// Reports whether verbose logging was enabled at build time.
func IsVerbose() bool {
	return verboseMode.Load()
}
