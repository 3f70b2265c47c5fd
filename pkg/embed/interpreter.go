// Package ulto embeds the interpreter in Go programs: run tree documents,
// seed variables from Go values and read the final values back.
package ulto

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/funvibe/ulto/internal/analyzer"
	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/backend"
	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/loader"
	"github.com/funvibe/ulto/internal/pipeline"
	"github.com/funvibe/ulto/internal/token"
)

// Interpreter runs programs with a shared configuration and set of seeded
// variables. Each run gets a fresh evaluator, so runs never share state.
type Interpreter struct {
	cfg        *config.Config
	out        io.Writer
	logger     *slog.Logger
	marshaller *Marshaller
	bindings   map[string]ast.Expression
	last       *Run
}

// Run is the outcome of one program.
type Run struct {
	File string
	// Output is what the program printed, when the interpreter buffers it.
	Output []byte
	Result *evaluator.Result
	Err    error

	marshaller *Marshaller
}

// New creates an interpreter with the default configuration, printing to
// standard output.
func New() *Interpreter {
	return &Interpreter{
		cfg:        config.Default(),
		out:        os.Stdout,
		logger:     slog.New(slog.DiscardHandler),
		marshaller: NewMarshaller(),
		bindings:   make(map[string]ast.Expression),
	}
}

// LoadConfig replaces the configuration with the ulto.yaml file at path.
func (in *Interpreter) LoadConfig(path string) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	in.cfg = cfg
	return nil
}

// SetConfigYAML replaces the configuration with ulto.yaml content.
func (in *Interpreter) SetConfigYAML(data []byte) error {
	cfg, err := config.ParseConfig(data, "<embed>")
	if err != nil {
		return err
	}
	in.cfg = cfg
	return nil
}

// SetConfig replaces the configuration. It is validated on the next run.
func (in *Interpreter) SetConfig(cfg *config.Config) { in.cfg = cfg }

func (in *Interpreter) SetOutput(w io.Writer) { in.out = w }

func (in *Interpreter) SetLogger(l *slog.Logger) { in.logger = l }

// Set seeds a variable with a Go value. Seeded variables are assigned, in
// name order, before the first statement of every later run.
func (in *Interpreter) Set(name string, val any) error {
	expr, err := in.marshaller.ToExpression(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	in.bindings[name] = expr
	return nil
}

// Get returns the final value of a variable from the most recent run.
func (in *Interpreter) Get(name string) (any, error) {
	if in.last == nil {
		return nil, fmt.Errorf("no program has run")
	}
	return in.last.Value(name)
}

// Eval runs a tree document held in memory.
func (in *Interpreter) Eval(ctx context.Context, source []byte) (*Run, error) {
	return in.run(ctx, "<eval>", source, in.out)
}

// LoadFile reads and runs the tree document at path.
func (in *Interpreter) LoadFile(ctx context.Context, path string) (*Run, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return in.run(ctx, path, source, in.out)
}

func (in *Interpreter) run(ctx context.Context, path string, source []byte, out io.Writer) (*Run, error) {
	pctx := pipeline.NewPipelineContext(path, source)
	pctx.Config = in.cfg
	pctx.Context = ctx
	pctx.Out = out
	pctx.Logger = in.logger

	p := pipeline.New(
		&loader.TreeLoaderProcessor{},
		&BindingProcessor{Bindings: in.bindings},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(backend.NewTreeWalk()),
	)
	pctx = p.Run(pctx)

	r := &Run{File: path, Result: pctx.Result, Err: pctx.FirstError(), marshaller: in.marshaller}
	in.last = r
	return r, r.Err
}

// Value returns the final value of a variable as a Go value.
func (r *Run) Value(name string) (any, error) {
	if r.Result == nil {
		return nil, fmt.Errorf("%s did not run", r.File)
	}
	obj, ok := r.Result.Symbols[name]
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return r.marshaller.FromValue(obj)
}

// Values returns every final value that converts to Go.
func (r *Run) Values() map[string]any {
	out := make(map[string]any)
	if r.Result == nil {
		return out
	}
	for name, obj := range r.Result.Symbols {
		if v, err := r.marshaller.FromValue(obj); err == nil {
			out[name] = v
		}
	}
	return out
}

// BindingProcessor places one assignment per seeded variable before the
// program, so the analyzer sees the names as defined.
type BindingProcessor struct {
	Bindings map[string]ast.Expression
}

func (bp *BindingProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Failed() || len(bp.Bindings) == 0 {
		return ctx
	}
	names := make([]string, 0, len(bp.Bindings))
	for name := range bp.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	stmts := make([]ast.Statement, 0, len(names)+len(ctx.AstRoot.Statements))
	for _, name := range names {
		id := &ast.Identifier{Token: token.Token{Type: token.IDENT, Lexeme: name}, Value: name}
		stmts = append(stmts, &ast.AssignStatement{Token: id.Token, Name: id, Operator: token.ASSIGN, Value: bp.Bindings[name]})
	}
	ctx.AstRoot = &ast.Program{File: ctx.AstRoot.File, Statements: append(stmts, ctx.AstRoot.Statements...)}
	return ctx
}

// buffered runs a program with its output captured in Run.Output.
func (in *Interpreter) buffered(ctx context.Context, path string) *Run {
	source, err := os.ReadFile(path)
	if err != nil {
		return &Run{File: path, Err: err, marshaller: in.marshaller}
	}
	var buf bytes.Buffer
	r, _ := in.run(ctx, path, source, &buf)
	r.Output = buf.Bytes()
	return r
}
