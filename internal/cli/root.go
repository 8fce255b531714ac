package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal"
)

// Represents the root command for the py2winapp tool.
var RootCmd struct {
	Quiet   bool   `short:"q" help:"Suppress informational output."`
	Verbose bool   `short:"v" help:"Enable verbose output."`
	Debug   bool   `short:"d" help:"Enable debug output."`
	LogFile string `help:"Write a debug log to PATH in addition to stderr." placeholder:"PATH"`

	Build   BuildCmd   `cmd:"" help:"Package a Python project into a Windows application."`
	Clean   CleanCmd   `cmd:"" help:"Remove build outputs."`
	Cache   CacheCmd   `cmd:"" help:"Inspect or prune the download cache."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Make runnable Windows applications from Python projects.\n\nBundles an embeddable Python runtime, the project sources, and their dependencies into a relocatable directory with a double-clickable launcher."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	log, err := configureLogger()
	if err != nil {
		return err
	}
	kongCtx.BindTo(log, (*hclog.Logger)(nil))

	return kongCtx.Run()
}

// Creates the logger from CLI flags and build-time defaults.
//
// Informational output goes to stderr at a level selected by the flag
// trio. When a log file is configured, a second sink receives everything
// at Trace, so a quiet console run still leaves a full record behind.
func configureLogger() (hclog.Logger, error) {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := hclog.Info
	switch {
	case debug:
		level = hclog.Debug
	case verbose:
		level = hclog.Trace
	case quiet:
		level = hclog.Warn
	}

	log := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:   internal.Name,
		Level:  level,
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})

	if RootCmd.LogFile != "" {
		// Truncate rather than append: the log describes one build.
		file, err := os.Create(RootCmd.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log.RegisterSink(hclog.NewSinkAdapter(&hclog.LoggerOptions{
			Level:  hclog.Trace,
			Output: file,
		}))
	}

	return log, nil
}
