// Package prettyprinter renders a program tree back to readable source for
// the -dump flag.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/token"
)

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[token.TokenType]int{
	token.OR:         1,
	token.AND:        2,
	token.NOT:        3,
	token.EQ:         4,
	token.NOT_EQ:     4,
	token.LT:         4,
	token.GT:         4,
	token.LTE:        4,
	token.GTE:        4,
	token.PLUS:       5,
	token.MINUS:      5,
	token.ASTERISK:   6,
	token.SLASH:      6,
	token.SLASHSLASH: 6,
	token.PERCENT:    6,
}

// unary minus binds tighter than every binary operator
const prefixPrecedence = 7

func getPrecedence(op token.TokenType) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a whole program.
func Print(program *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

// PrintExpression renders one expression with minimal parentheses.
func PrintExpression(expr ast.Expression) string {
	p := NewCodePrinter()
	p.printExpr(expr, 0, false)
	return p.String()
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

// printExpr prints an expression, adding parentheses only if needed.
// All binary operators are left-associative.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	switch e := expr.(type) {
	case nil:
		p.write("<???>")
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + string(e.Operator) + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		prec := prefixPrecedence
		if e.Operator == token.NOT {
			prec = getPrecedence(token.NOT)
		}
		needParens := prec < parentPrec
		if needParens {
			p.write("(")
		}
		if e.Operator == token.NOT {
			p.write("not ")
		} else {
			p.write(string(e.Operator))
		}
		p.printExpr(e.Right, prec, false)
		if needParens {
			p.write(")")
		}
	case *ast.ListLiteral:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, 0, false)
		}
		p.write("]")
	case *ast.IndexExpression:
		p.printExpr(e.Left, 100, false)
		p.write("[")
		p.printExpr(e.Index, 0, false)
		p.write("]")
	case *ast.LenExpression:
		p.write("len(")
		p.printExpr(e.Argument, 0, false)
		p.write(")")
	default:
		// literals and identifiers
		p.write(expr.String())
	}
}

func (p *CodePrinter) PrintProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		p.printStatement(stmt)
	}
}

// printBody prints an indented block; an empty one prints as pass.
func (p *CodePrinter) printBody(b *ast.BlockStatement) {
	p.write(":")
	p.writeln()
	p.indent++
	if b == nil || len(b.Statements) == 0 {
		p.writeIndent()
		p.write("pass")
		p.writeln()
	} else {
		for _, stmt := range b.Statements {
			p.printStatement(stmt)
		}
	}
	p.indent--
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	p.writeIndent()
	switch n := stmt.(type) {
	case *ast.AssignStatement:
		p.write(n.Name.Value + " " + string(n.Operator) + " ")
		p.printExpr(n.Value, 0, false)
		p.writeln()
	case *ast.IfStatement:
		p.write("if ")
		p.printExpr(n.Condition, 0, false)
		p.printBody(n.Consequence)
		for _, elif := range n.Elifs {
			p.writeIndent()
			p.write("elif ")
			p.printExpr(elif.Condition, 0, false)
			p.printBody(elif.Body)
		}
		if n.Alternative != nil {
			p.writeIndent()
			p.write("else")
			p.printBody(n.Alternative)
		}
	case *ast.WhileStatement:
		p.write("while ")
		p.printExpr(n.Condition, 0, false)
		p.printBody(n.Body)
	case *ast.ForStatement:
		p.write("for " + n.Variable.Value + " in ")
		if n.Range != nil {
			p.write("range(")
			p.printExpr(n.Range.Start, 0, false)
			p.write(", ")
			p.printExpr(n.Range.End, 0, false)
			if n.Range.Step != nil {
				p.write(", ")
				p.printExpr(n.Range.Step, 0, false)
			}
			p.write(")")
		} else {
			p.printExpr(n.Iterable, 0, false)
		}
		p.printBody(n.Body)
	case *ast.PrintStatement:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = PrintExpression(v)
		}
		p.write("print " + strings.Join(parts, ", "))
		p.writeln()
	case *ast.ReverseStatement:
		p.write("REVERSE " + n.Name.Value)
		p.writeCount(n.Count)
	case *ast.ReverseTraceStatement:
		p.write("REVTRACE " + n.Name.Value)
		p.writeCount(n.Count)
	case *ast.BreakStatement:
		p.write("break")
		p.writeln()
	case *ast.BlockStatement:
		p.write("block")
		p.printBody(n)
	default:
		p.write("<???>")
		p.writeln()
	}
}

func (p *CodePrinter) writeCount(count int) {
	if count > 1 {
		p.write(" " + strconv.Itoa(count))
	}
	p.writeln()
}
