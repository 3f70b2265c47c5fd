package analyzer

import (
	"github.com/funvibe/ulto/internal/pipeline"
	"github.com/funvibe/ulto/internal/symbols"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Failed() {
		return ctx
	}
	if ctx.SymbolTable == nil {
		ctx.SymbolTable = symbols.NewSymbolTable()
	}

	analyzer := New(ctx.SymbolTable)
	if ctx.Config != nil {
		analyzer.HotReferenceThreshold = ctx.Config.HotReferenceThreshold
	}
	program, errors := analyzer.Analyze(ctx.AstRoot)
	if len(errors) > 0 {
		ctx.Errors = append(ctx.Errors, errors...)
		return ctx
	}

	ctx.AstRoot = program
	ctx.Eager = analyzer.Eager
	ctx.Logger.Debug("analysis complete",
		"file", ctx.FilePath,
		"variables", ctx.SymbolTable.Len(),
		"eager", len(analyzer.Eager),
		"folded", analyzer.Folded)
	return ctx
}
