// Package build orchestrates the packaging pipeline.
//
// A build transforms (source directory, runtime version, dependency list)
// into a self-contained, relocatable Windows application directory. The
// pipeline is linear: stage sources, fetch the embeddable runtime through
// a persistent cache, provision it, install dependencies into it, generate
// the launcher executable, and optionally produce a distributable archive.
//
// Options carry the user-facing knobs; Resolve turns them into an
// immutable Config with every default materialized and every path made
// absolute before the first stage runs. Stages have hard filesystem
// dependencies on their predecessors and run strictly sequentially. Each
// stage is idempotent, so a failed or aborted build is recovered by simply
// re-running it; no rollback is attempted and none is needed.
//
// Example usage:
//
//	result, err := build.Run(ctx, log, build.Options{
//	    PythonVersion: "3.11.4",
//	    ProjectPath:   ".",
//	    MainFile:      "main.py",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.ExePath)
package build
