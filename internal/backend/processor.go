package backend

import (
	"errors"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || ctx.Failed() {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	ctx.Result = result
	if err != nil {
		p.handleError(ctx, err)
		return ctx
	}
	ctx.Logger.Info("program finished",
		"file", ctx.FilePath,
		"backend", p.Backend.Name(),
		"assignments", result.Counters.Assignments,
		"evaluations", result.Counters.Evaluations,
		"reversals", result.Counters.Reversals)
	return ctx
}

// handleError records runtime faults as diagnostics and anything else
// (configuration, I/O) as the context error.
func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		if de.File == "" {
			de.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, de)
		ctx.Logger.Warn("program faulted", "file", ctx.FilePath, "code", string(de.Code), "error", de.Message)
		return
	}
	ctx.Err = err
}
