// Parses flags and configures logging for the py2winapp tool.
//
// The tool accepts the following global flags:
//
//	-q, --quiet      Suppress informational output.
//	-v, --verbose    Enable verbose output.
//	-d, --debug      Enable debug output.
//	    --log-file   Write a debug log in addition to stderr.
//
// Flags override build-time defaults set via linker flags. Subcommand
// options for 'build' follow a three-layer model: built-in defaults, the
// project manifest, then command-line flags, each layer overriding the
// previous. The command surface is thin glue; all real work happens in the
// build package.
package cli
