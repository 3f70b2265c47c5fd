// Package backend runs an analysed program. The tree-walk interpreter is the
// only backend; the interface keeps the pipeline independent of it.
package backend

import (
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context. On a runtime fault
	// the partial result is returned together with the error.
	Run(ctx *pipeline.PipelineContext) (*evaluator.Result, error)

	// Name returns the backend name for display
	Name() string
}
