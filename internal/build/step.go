package build

import "context"

// A named pipeline stage.
//
// Stages run strictly in order; each consumes the filesystem output of its
// predecessors. A failing stage aborts the pipeline immediately with its
// name wrapped into the error, so the first failing stage is identifiable
// from the error chain alone.
type step struct {
	name string
	run  func(context.Context) error
}
