package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/logstack"
	"github.com/funvibe/ulto/internal/symbols"
)

// PipelineContext carries one program through loading, analysis and
// execution.
type PipelineContext struct {
	// FilePath names the tree document; it appears in fault positions.
	FilePath string
	// Source is the raw tree document when the loader stage is used.
	Source []byte

	AstRoot     *ast.Program
	SymbolTable *symbols.SymbolTable
	// Eager is the set of variables evaluated on assignment.
	Eager map[string]bool

	Config  *config.Config
	Context context.Context
	Clock   logstack.Clock
	Out     io.Writer
	Logger  *slog.Logger

	Result *evaluator.Result
	Errors []*diagnostics.DiagnosticError
	// Err is a non-diagnostic failure (I/O, configuration).
	Err error
}

// NewPipelineContext creates a context for the document at path.
func NewPipelineContext(path string, source []byte) *PipelineContext {
	return &PipelineContext{
		FilePath: path,
		Source:   source,
		Config:   config.Default(),
		Context:  context.Background(),
		Clock:    logstack.SystemClock{},
		Out:      os.Stdout,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0 || ctx.Err != nil
}

// FirstError returns the error that stopped the pipeline, if any.
func (ctx *PipelineContext) FirstError() error {
	if ctx.Err != nil {
		return ctx.Err
	}
	if len(ctx.Errors) > 0 {
		return ctx.Errors[0]
	}
	return nil
}
