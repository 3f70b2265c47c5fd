package analyzer

import (
	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/token"
)

// condition analyses an expression that is evaluated on every check; every
// variable it reads becomes eager.
func (w *walker) condition(e ast.Expression) ast.Expression {
	for _, id := range ast.Identifiers(e) {
		w.eager[id.Value] = true
	}
	return w.expression(e)
}

// expression checks every read and returns e with literal-only
// sub-expressions folded.
func (w *walker) expression(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.Identifier:
		w.references[n.Value]++
		if sym, ok := w.symbolTable.Find(n.Value); ok {
			sym.References++
		} else {
			w.requireDefined(n)
		}
		return n

	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
		return n

	case *ast.ListLiteral:
		cp := *n
		cp.Elements = make([]ast.Expression, len(n.Elements))
		for i, el := range n.Elements {
			cp.Elements[i] = w.expression(el)
		}
		return &cp

	case *ast.PrefixExpression:
		cp := *n
		cp.Right = w.expression(n.Right)
		if operand := literalValue(cp.Right); operand != nil {
			if val, err := evaluator.ApplyPrefix(n.Operator, operand); err == nil {
				return w.literal(val, n.Token, &cp)
			}
		}
		return &cp

	case *ast.InfixExpression:
		cp := *n
		cp.Left = w.expression(n.Left)
		cp.Right = w.expression(n.Right)
		left, right := literalValue(cp.Left), literalValue(cp.Right)
		if left != nil && right != nil {
			// faults such as division by zero are left for run time
			if val, err := evaluator.ApplyInfix(n.Operator, left, right); err == nil {
				return w.literal(val, n.Token, &cp)
			}
		}
		return &cp

	case *ast.IndexExpression:
		cp := *n
		cp.Left = w.expression(n.Left)
		cp.Index = w.expression(n.Index)
		return &cp

	case *ast.LenExpression:
		cp := *n
		cp.Argument = w.expression(n.Argument)
		if s, ok := cp.Argument.(*ast.StringLiteral); ok {
			w.folded++
			return &ast.IntegerLiteral{Token: token.Token{Type: token.INT, Line: n.Token.Line, Column: n.Token.Column},
				Value: int64(len([]rune(s.Value)))}
		}
		return &cp
	}
	return e
}

// literalValue converts a scalar literal node to a value, or returns nil.
func literalValue(e ast.Expression) evaluator.Object {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return &evaluator.Integer{Value: n.Value}
	case *ast.FloatLiteral:
		return &evaluator.Float{Value: n.Value}
	case *ast.StringLiteral:
		return &evaluator.String{Value: n.Value}
	case *ast.BooleanLiteral:
		return &evaluator.Boolean{Value: n.Value}
	}
	return nil
}

// literal builds the node for a folded value at the operator's position.
// Values without a literal form keep the original node.
func (w *walker) literal(val evaluator.Object, at token.Token, orig ast.Expression) ast.Expression {
	t := token.Token{Lexeme: val.Inspect(), Line: at.Line, Column: at.Column}
	var out ast.Expression
	switch v := val.(type) {
	case *evaluator.Integer:
		t.Type = token.INT
		out = &ast.IntegerLiteral{Token: t, Value: v.Value}
	case *evaluator.Float:
		t.Type = token.FLOAT
		out = &ast.FloatLiteral{Token: t, Value: v.Value}
	case *evaluator.String:
		t.Type = token.STRING
		out = &ast.StringLiteral{Token: t, Value: v.Value}
	case *evaluator.Boolean:
		t.Type = token.FALSE
		if v.Value {
			t.Type = token.TRUE
		}
		out = &ast.BooleanLiteral{Token: t, Value: v.Value}
	default:
		return orig
	}
	w.folded++
	return out
}
