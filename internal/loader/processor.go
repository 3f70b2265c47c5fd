package loader

import (
	"github.com/funvibe/ulto/internal/pipeline"
)

// TreeLoaderProcessor decodes ctx.Source into ctx.AstRoot. A context that
// already carries a tree is passed through untouched.
type TreeLoaderProcessor struct{}

func (tp *TreeLoaderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot != nil || ctx.Failed() {
		return ctx
	}
	program, errs := Decode(ctx.Source, ctx.FilePath)
	if len(errs) > 0 {
		ctx.Errors = append(ctx.Errors, errs...)
		return ctx
	}
	ctx.AstRoot = program
	ctx.Logger.Debug("tree loaded", "file", ctx.FilePath, "statements", len(program.Statements))
	return ctx
}
