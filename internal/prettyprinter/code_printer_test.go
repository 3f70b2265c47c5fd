package prettyprinter

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/loader"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := loader.Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func TestPrintProgram(t *testing.T) {
	program := parse(t, `
- assign: a
  value: 0
- assign: a
  op: "+="
  value: {"*": [a, 2]}
- if: {"<": [a, 10]}
  then:
    - print: [a, "x"]
  elif:
    - cond: {"==": [a, 10]}
      then: []
  else:
    - reverse: a
      count: 2
- while: {and: [{">": [a, 0]}, {not: done}]}
  do:
    - break
- for: i
  range: [0, 10, 2]
  do:
    - revtrace: a
- for: c
  in: "ab"
  do: []
`)
	expected := `a = 0
a += a * 2
if a < 10:
    print a, "x"
elif a == 10:
    pass
else:
    REVERSE a 2
while a > 0 and not done:
    break
for i in range(0, 10, 2):
    REVTRACE a
for c in "ab":
    pass
`
	be.Equal(t, Print(program), expected)
}

func TestPrintExpressionParentheses(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`{"*": [{"+": [a, b]}, c]}`, "(a + b) * c"},
		{`{"+": [a, {"*": [b, c]}]}`, "a + b * c"},
		{`{"-": [a, {"-": [b, c]}]}`, "a - (b - c)"},
		{`{"-": [{"-": [a, b]}, c]}`, "a - b - c"},
		{`{"-": {"+": [a, b]}}`, "-(a + b)"},
		{`{not: {or: [a, b]}}`, "not (a or b)"},
		{`{or: [{not: a}, b]}`, "not a or b"},
		{`{index: [{list: [1, 2]}, {len: xs}]}`, "[1, 2][len(xs)]"},
		{`{"//": [7.0, 'q']}`, `7.0 // "q"`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			program := parse(t, "- print: "+tt.src+"\n")
			got := PrintExpression(program.Statements[0].(*ast.PrintStatement).Values[0])
			be.Equal(t, got, tt.expected)
		})
	}
}
