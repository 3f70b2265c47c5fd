package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/pipeline"
	"github.com/funvibe/ulto/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func TestParseStatements(t *testing.T) {
	src := `
program:
  - assign: a
    value: 0
  - assign: a
    op: "+="
    value: {"*": [a, 2]}
  - if: {"<": [a, 10]}
    then:
      - print: a
    elif:
      - cond: {"==": [a, 10]}
        then:
          - print: "ten"
    else:
      - break
  - while: {">": [a, 0]}
    do:
      - assign: a
        value: {"-": [a, 1]}
  - for: i
    range: [0, 10, 2]
    do: []
  - for: c
    in: "abc"
    do:
      - print: [c, {len: c}]
  - reverse: a
    count: 2
  - revtrace: a
`
	program := mustParse(t, src)
	be.Equal(t, len(program.Statements), 8)
	be.Equal(t, program.File, "test.yaml")

	assign := program.Statements[0].(*ast.AssignStatement)
	be.Equal(t, assign.Name.Value, "a")
	be.Equal(t, assign.Token.Line, 3)
	be.Equal(t, assign.Value.String(), "0")

	compound := program.Statements[1].(*ast.AssignStatement)
	be.True(t, compound.IsCompound())
	be.Equal(t, compound.Operator, token.PLUS_ASSIGN)
	be.Equal(t, compound.Value.String(), "(a * 2)")

	ifs := program.Statements[2].(*ast.IfStatement)
	be.Equal(t, ifs.Condition.String(), "(a < 10)")
	be.Equal(t, len(ifs.Elifs), 1)
	be.Equal(t, ifs.Elifs[0].Body.Statements[0].(*ast.PrintStatement).Values[0].String(), `"ten"`)
	_, isBreak := ifs.Alternative.Statements[0].(*ast.BreakStatement)
	be.True(t, isBreak)

	forRange := program.Statements[4].(*ast.ForStatement)
	be.Equal(t, forRange.Range.Step.String(), "2")
	be.Equal(t, len(forRange.Body.Statements), 0)

	forEach := program.Statements[5].(*ast.ForStatement)
	be.Equal(t, forEach.Iterable.String(), `"abc"`)
	be.Equal(t, len(forEach.Body.Statements[0].(*ast.PrintStatement).Values), 2)

	rev := program.Statements[6].(*ast.ReverseStatement)
	be.Equal(t, rev.Count, 2)
	trace := program.Statements[7].(*ast.ReverseTraceStatement)
	be.Equal(t, trace.Count, 1)
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`42`, "42"},
		{`2.5`, "2.5"},
		{`true`, "true"},
		{`'hi'`, `"hi"`},
		{`{str: hello world}`, `"hello world"`},
		{`x`, "x"},
		{`{list: [1, [2, x]]}`, "[1, [2, x]]"},
		{`{list: []}`, "[]"},
		{`{"-": x}`, "(-x)"},
		{`{not: [x]}`, "(not x)"},
		{`{"//": [7, 2]}`, "(7 // 2)"},
		{`{and: [a, {or: [b, c]}]}`, "(a and (b or c))"},
		{`{index: [xs, -1]}`, "xs[-1]"},
		{`{len: {list: [1, 2]}}`, "len([1, 2])"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := mustParse(t, "- print: "+tt.src+"\n")
			got := program.Statements[0].(*ast.PrintStatement).Values[0].String()
			be.Equal(t, got, tt.expected)
		})
	}
}

func TestPrintListLiteralNeedsListKey(t *testing.T) {
	program := mustParse(t, "- print: {list: [1, 2]}\n- print: [1, 2]\n")
	single := program.Statements[0].(*ast.PrintStatement)
	multi := program.Statements[1].(*ast.PrintStatement)
	be.Equal(t, len(single.Values), 1)
	be.Equal(t, len(multi.Values), 2)
}

func TestMalformedTrees(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown statement", "- jump: a\n"},
		{"missing value", "- assign: a\n"},
		{"bad operator", "- assign: a\n  op: \"%=\"\n  value: 1\n"},
		{"reserved name", "- assign: while\n  value: 1\n"},
		{"unquoted string", "- print: hello world\n"},
		{"bad count", "- reverse: a\n  count: 0\n"},
		{"range and in", "- for: i\n  range: [0, 1]\n  in: xs\n"},
		{"range arity", "- for: i\n  range: [1]\n"},
		{"unknown operator", "- print: {\"**\": [2, 3]}\n"},
		{"extra key", "- while: x\n  do: []\n  else: []\n"},
		{"scalar document", "hello\n"},
		{"invalid yaml", "- [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.yaml")
			be.True(t, errors.Is(err, diagnostics.ErrMalformedTree))
			kind, ok := diagnostics.KindOf(err)
			be.True(t, ok)
			be.Equal(t, kind, diagnostics.KindSyntax)
		})
	}
}

func TestDecodeCollectsAllErrorsInOrder(t *testing.T) {
	src := "- jump: a\n- assign: b\n- print: a b\n"
	_, errs := Decode([]byte(src), "bad.yaml")
	be.Equal(t, len(errs), 3)
	be.Equal(t, errs[0].Token.Line, 1)
	be.Equal(t, errs[2].Token.Line, 3)
	be.Equal(t, errs[1].File, "bad.yaml")
}

func TestEmptyDocumentIsEmptyProgram(t *testing.T) {
	program := mustParse(t, "")
	be.Equal(t, len(program.Statements), 0)
	program = mustParse(t, "program:\n")
	be.Equal(t, len(program.Statements), 0)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.yaml")
	be.Err(t, os.WriteFile(path, []byte("- assign: x\n  value: 1\n"), 0o644), nil)

	program, err := LoadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, program.File, path)
	be.Equal(t, len(program.Statements), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	be.Err(t, err)
}

func TestTreeLoaderProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("p.yaml", []byte("- print: 1\n"))
	ctx = (&TreeLoaderProcessor{}).Process(ctx)
	be.True(t, !ctx.Failed())
	be.Equal(t, len(ctx.AstRoot.Statements), 1)

	bad := pipeline.NewPipelineContext("p.yaml", []byte("- nope: 1\n"))
	bad = (&TreeLoaderProcessor{}).Process(bad)
	be.True(t, bad.Failed())
	be.True(t, bad.AstRoot == nil)
}
