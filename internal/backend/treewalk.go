package backend

import (
	"fmt"

	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/pipeline"
)

// TreeWalkBackend wraps the tree-walk interpreter
type TreeWalkBackend struct{}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

// Run builds a fresh evaluator from the context settings and executes the
// program once.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (*evaluator.Result, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}

	var (
		eval *evaluator.Evaluator
		err  error
	)
	if ctx.Clock != nil {
		eval, err = evaluator.NewWithClock(ctx.Config, ctx.Clock)
	} else {
		eval, err = evaluator.New(ctx.Config)
	}
	if err != nil {
		return nil, err
	}
	if ctx.Context != nil {
		eval.Context = ctx.Context
	}
	if ctx.Out != nil {
		eval.Out = ctx.Out
	}
	if ctx.Logger != nil {
		eval.Logger = ctx.Logger.With("file", ctx.FilePath)
	}

	if ctx.AstRoot.File == "" {
		ctx.AstRoot.File = ctx.FilePath
	}
	return eval.Run(ctx.AstRoot, ctx.Eager)
}

func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
