package evaluator

import (
	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// evalExpression computes the plain value of an expression. Identifiers
// holding thunks are forced.
func (e *Evaluator) evalExpression(node ast.Expression) (Object, error) {
	switch node := node.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
		return literalObject(node), nil

	case *ast.Identifier:
		return e.evalIdentifier(node)

	case *ast.ListLiteral:
		elements := make([]Object, len(node.Elements))
		for i, el := range node.Elements {
			val, err := e.evalExpression(el)
			if err != nil {
				return nil, err
			}
			elements[i] = val
		}
		return &List{Elements: elements}, nil

	case *ast.PrefixExpression:
		right, err := e.evalExpression(node.Right)
		if err != nil {
			return nil, err
		}
		val, err := ApplyPrefix(node.Operator, right)
		return positioned(val, err, node.Token)

	case *ast.InfixExpression:
		// and/or short-circuit
		if node.Operator == token.AND || node.Operator == token.OR {
			left, err := e.evalExpression(node.Left)
			if err != nil {
				return nil, err
			}
			lt := Truthy(left)
			if (node.Operator == token.AND && !lt) || (node.Operator == token.OR && lt) {
				return nativeBoolToBooleanObject(lt), nil
			}
			right, err := e.evalExpression(node.Right)
			if err != nil {
				return nil, err
			}
			return nativeBoolToBooleanObject(Truthy(right)), nil
		}
		left, err := e.evalExpression(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalInfix(node.Token, node.Operator, left, right)

	case *ast.IndexExpression:
		left, err := e.evalExpression(node.Left)
		if err != nil {
			return nil, err
		}
		index, err := e.evalExpression(node.Index)
		if err != nil {
			return nil, err
		}
		return evalIndex(node.Token, left, index)

	case *ast.LenExpression:
		arg, err := e.evalExpression(node.Argument)
		if err != nil {
			return nil, err
		}
		switch v := arg.(type) {
		case *String:
			return &Integer{Value: int64(len([]rune(v.Value)))}, nil
		case *List:
			return &Integer{Value: int64(len(v.Elements))}, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrR005, node.Token, "len() of %s", arg.Type())
	}
	return nil, diagnostics.NewError(diagnostics.ErrL001, node.GetToken(), "unknown expression type: %T", node)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier) (Object, error) {
	var (
		val Object
		ok  bool
	)
	if e.scope != nil {
		val, ok = e.scope[node.Value]
	} else {
		val, ok = e.env.Get(node.Value)
	}
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrS001, node.Token,
			"variable %s is not defined", node.Value).WithVariable(node.Value)
	}
	if l, ok := val.(*Lazy); ok {
		v, err := l.Evaluate()
		if err != nil {
			return nil, withVariable(err, node.Value)
		}
		return v, nil
	}
	return val, nil
}

func (e *Evaluator) evalInfix(tok token.Token, op token.TokenType, left, right Object) (Object, error) {
	val, err := ApplyInfix(op, left, right)
	return positioned(val, err, tok)
}

func evalIndex(tok token.Token, left, index Object) (Object, error) {
	idx, ok := index.(*Integer)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrR005, tok, "index must be INTEGER, got %s", index.Type())
	}
	switch v := left.(type) {
	case *List:
		i, err := normalizeIndex(tok, idx.Value, len(v.Elements))
		if err != nil {
			return nil, err
		}
		return v.Elements[i], nil
	case *String:
		runes := []rune(v.Value)
		i, err := normalizeIndex(tok, idx.Value, len(runes))
		if err != nil {
			return nil, err
		}
		return &String{Value: string(runes[i])}, nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrR005, tok, "cannot index %s", left.Type())
}

// normalizeIndex accepts negative indices counted from the end.
func normalizeIndex(tok token.Token, index int64, n int) (int, error) {
	i := index
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, diagnostics.NewError(diagnostics.ErrR008, tok, "index %d out of range for length %d", index, n)
	}
	return int(i), nil
}

// literalObject converts a scalar literal node, or returns nil.
func literalObject(node ast.Expression) Object {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return &Integer{Value: n.Value}
	case *ast.FloatLiteral:
		return &Float{Value: n.Value}
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(n.Value)
	}
	return nil
}

// positioned attaches tok to a fault raised without a position.
func positioned(obj Object, err error, tok token.Token) (Object, error) {
	if err == nil {
		return obj, nil
	}
	if de, ok := err.(*diagnostics.DiagnosticError); ok && de.Token.Line == 0 {
		de.Token = tok
	}
	return nil, err
}
