package pipeline

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

type stage struct {
	name  string
	seen  *[]string
	fault error
}

func (s stage) Process(ctx *PipelineContext) *PipelineContext {
	*s.seen = append(*s.seen, s.name)
	if s.fault != nil {
		ctx.Err = s.fault
	}
	return ctx
}

func TestRunVisitsEveryStageInOrder(t *testing.T) {
	var seen []string
	boom := errors.New("boom")
	ctx := New(
		stage{name: "load", seen: &seen},
		stage{name: "analyse", seen: &seen, fault: boom},
		stage{name: "exec", seen: &seen},
	).Run(NewPipelineContext("p.yaml", nil))

	// stages decide for themselves whether to skip after a failure
	be.Equal(t, seen, []string{"load", "analyse", "exec"})
	be.True(t, ctx.Failed())
	be.Err(t, ctx.FirstError(), boom)
}

func TestFirstErrorPrefersErr(t *testing.T) {
	ctx := NewPipelineContext("p.yaml", nil)
	be.Err(t, ctx.FirstError(), nil)
	be.True(t, !ctx.Failed())

	diag := diagnostics.NewError(diagnostics.ErrS001, token.Token{Line: 1}, "x")
	ctx.Errors = append(ctx.Errors, diag)
	be.Equal(t, ctx.FirstError(), error(diag))

	ctx.Err = errors.New("io")
	be.Equal(t, ctx.FirstError().Error(), "io")
}
