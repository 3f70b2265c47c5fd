package backend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/analyzer"
	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/loader"
	"github.com/funvibe/ulto/internal/pipeline"
)

func runPipeline(src string, setup func(*pipeline.PipelineContext)) (*pipeline.PipelineContext, string) {
	var out bytes.Buffer
	ctx := pipeline.NewPipelineContext("prog.yaml", []byte(src))
	ctx.Out = &out
	if setup != nil {
		setup(ctx)
	}
	ctx = pipeline.New(
		&loader.TreeLoaderProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		NewExecutionProcessor(NewTreeWalk()),
	).Run(ctx)
	return ctx, out.String()
}

func TestExecutionProcessorCompletes(t *testing.T) {
	ctx, out := runPipeline("- assign: a\n  value: 2\n- print: {\"*\": [a, 21]}\n", nil)
	be.True(t, !ctx.Failed())
	be.Equal(t, out, "42\n")
	be.Equal(t, ctx.Result.State, evaluator.StateCompleted)
	be.Equal(t, ctx.Result.File, "prog.yaml")
	v, _ := ctx.Result.Lookup("a")
	be.Equal(t, v, "2")
}

func TestExecutionProcessorRecordsFault(t *testing.T) {
	ctx, out := runPipeline("- assign: a\n  value: 1\n- print: a\n- reverse: a\n", nil)
	be.Equal(t, out, "1\n")
	be.True(t, ctx.Failed())
	be.True(t, errors.Is(ctx.FirstError(), diagnostics.ErrEmptyHistory))
	be.Equal(t, ctx.Errors[0].File, "prog.yaml")
	be.Equal(t, ctx.Errors[0].Token.Line, 4)
	// the partial result survives the fault
	be.Equal(t, ctx.Result.State, evaluator.StateFaulted)
	be.Equal(t, ctx.Result.Counters.Assignments, int64(1))
}

func TestExecutionProcessorSkipsAfterAnalysisErrors(t *testing.T) {
	ctx, out := runPipeline("- print: missing\n", nil)
	be.Equal(t, out, "")
	be.True(t, ctx.Result == nil)
	be.True(t, errors.Is(ctx.FirstError(), diagnostics.ErrUndefinedVariable))
}

func TestTreeWalkUsesContextSettings(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx, _ := runPipeline("- assign: a\n  value: 1\n", func(ctx *pipeline.PipelineContext) {
		ctx.Context = cancelled
	})
	be.True(t, errors.Is(ctx.FirstError(), diagnostics.ErrCancelled))

	ctx, _ = runPipeline("- assign: a\n  value: 1\n", func(ctx *pipeline.PipelineContext) {
		ctx.Config = &config.Config{ProfileBatchSize: -1}
	})
	be.True(t, ctx.Err != nil)
	be.Equal(t, len(ctx.Errors), 0)
}

func TestTreeWalkName(t *testing.T) {
	be.Equal(t, NewTreeWalk().Name(), "tree-walk")
	_, err := NewTreeWalk().Run(pipeline.NewPipelineContext("x.yaml", nil))
	be.Err(t, err)
}
