package evaluator

import (
	"math"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// Truthy: booleans as-is, numbers when non-zero, strings and lists when non-empty.
func Truthy(obj Object) bool {
	switch v := obj.(type) {
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *List:
		return len(v.Elements) > 0
	case *Lazy:
		if v.evaluated {
			return Truthy(v.value)
		}
	}
	return false
}

// ApplyPrefix evaluates a unary operator on a plain value. Faults carry no
// position; callers attach one.
func ApplyPrefix(op token.TokenType, right Object) (Object, error) {
	switch op {
	case token.NOT:
		return nativeBoolToBooleanObject(!Truthy(right)), nil
	case token.MINUS:
		switch v := right.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}, nil
		case *Float:
			return &Float{Value: -v.Value}, nil
		}
		return nil, typeError("unknown operator: -%s", right.Type())
	}
	return nil, typeError("unknown operator: %s%s", op, right.Type())
}

// ApplyInfix evaluates a binary operator on two plain values. It is shared
// by the evaluator and by constant folding.
func ApplyInfix(op token.TokenType, left, right Object) (Object, error) {
	switch op {
	case token.AND:
		return nativeBoolToBooleanObject(Truthy(left) && Truthy(right)), nil
	case token.OR:
		return nativeBoolToBooleanObject(Truthy(left) || Truthy(right)), nil
	case token.EQ:
		return nativeBoolToBooleanObject(Equal(left, right)), nil
	case token.NOT_EQ:
		return nativeBoolToBooleanObject(!Equal(left, right)), nil
	}

	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return integerInfix(op, l.Value, r.Value)
		case *Float:
			return floatInfix(op, float64(l.Value), r.Value)
		}
	case *Float:
		switch r := right.(type) {
		case *Integer:
			return floatInfix(op, l.Value, float64(r.Value))
		case *Float:
			return floatInfix(op, l.Value, r.Value)
		}
	case *String:
		if r, ok := right.(*String); ok {
			return stringInfix(op, l.Value, r.Value)
		}
	case *List:
		if r, ok := right.(*List); ok && op == token.PLUS {
			elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &List{Elements: elements}, nil
		}
	}
	return nil, typeError("unsupported operand types: %s %s %s", left.Type(), op, right.Type())
}

func integerInfix(op token.TokenType, a, b int64) (Object, error) {
	switch op {
	case token.PLUS:
		return &Integer{Value: a + b}, nil
	case token.MINUS:
		return &Integer{Value: a - b}, nil
	case token.ASTERISK:
		return &Integer{Value: a * b}, nil
	case token.SLASH:
		if b == 0 {
			return nil, divisionByZero()
		}
		return &Integer{Value: a / b}, nil
	case token.SLASHSLASH:
		if b == 0 {
			return nil, divisionByZero()
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return &Integer{Value: q}, nil
	case token.PERCENT:
		if b == 0 {
			return nil, divisionByZero()
		}
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return &Integer{Value: r}, nil
	case token.LT:
		return nativeBoolToBooleanObject(a < b), nil
	case token.GT:
		return nativeBoolToBooleanObject(a > b), nil
	case token.LTE:
		return nativeBoolToBooleanObject(a <= b), nil
	case token.GTE:
		return nativeBoolToBooleanObject(a >= b), nil
	}
	return nil, typeError("unknown operator: INTEGER %s INTEGER", op)
}

func floatInfix(op token.TokenType, a, b float64) (Object, error) {
	switch op {
	case token.PLUS:
		return &Float{Value: a + b}, nil
	case token.MINUS:
		return &Float{Value: a - b}, nil
	case token.ASTERISK:
		return &Float{Value: a * b}, nil
	case token.SLASH:
		if b == 0 {
			return nil, divisionByZero()
		}
		return &Float{Value: a / b}, nil
	case token.SLASHSLASH:
		if b == 0 {
			return nil, divisionByZero()
		}
		return &Float{Value: math.Floor(a / b)}, nil
	case token.PERCENT:
		if b == 0 {
			return nil, divisionByZero()
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return &Float{Value: r}, nil
	case token.LT:
		return nativeBoolToBooleanObject(a < b), nil
	case token.GT:
		return nativeBoolToBooleanObject(a > b), nil
	case token.LTE:
		return nativeBoolToBooleanObject(a <= b), nil
	case token.GTE:
		return nativeBoolToBooleanObject(a >= b), nil
	}
	return nil, typeError("unknown operator: FLOAT %s FLOAT", op)
}

func stringInfix(op token.TokenType, a, b string) (Object, error) {
	switch op {
	case token.PLUS:
		return &String{Value: a + b}, nil
	case token.LT:
		return nativeBoolToBooleanObject(a < b), nil
	case token.GT:
		return nativeBoolToBooleanObject(a > b), nil
	case token.LTE:
		return nativeBoolToBooleanObject(a <= b), nil
	case token.GTE:
		return nativeBoolToBooleanObject(a >= b), nil
	}
	return nil, typeError("unknown operator: STRING %s STRING", op)
}

// Equal compares by value. Integers and floats compare numerically.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case *Integer:
		switch y := b.(type) {
		case *Integer:
			return x.Value == y.Value
		case *Float:
			return float64(x.Value) == y.Value
		}
	case *Float:
		switch y := b.(type) {
		case *Integer:
			return x.Value == float64(y.Value)
		case *Float:
			return x.Value == y.Value
		}
	case *String:
		if y, ok := b.(*String); ok {
			return x.Value == y.Value
		}
	case *Boolean:
		if y, ok := b.(*Boolean); ok {
			return x.Value == y.Value
		}
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func divisionByZero() error {
	return diagnostics.NewError(diagnostics.ErrR001, token.Token{}, "division by zero")
}

func typeError(format string, args ...any) error {
	return diagnostics.NewError(diagnostics.ErrR005, token.Token{}, format, args...)
}
