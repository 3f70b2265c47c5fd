package ulto

import (
	"fmt"
	"reflect"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/evaluator"
	"github.com/funvibe/ulto/internal/token"
)

// Marshaller handles conversion between Go and Ulto values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to an Ulto value: integers, floats, bools,
// strings and slices or arrays of those.
func (m *Marshaller) ToValue(val any) (evaluator.Object, error) {
	if val == nil {
		return nil, fmt.Errorf("cannot convert nil")
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		return m.sliceToList(v)
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// FromValue converts an Ulto value to a Go value. Integers become int64,
// lists become []any. An unforced lazy value is an error.
func (m *Marshaller) FromValue(obj evaluator.Object) (any, error) {
	switch o := obj.(type) {
	case *evaluator.Integer:
		return o.Value, nil
	case *evaluator.Float:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.List:
		return m.listToSlice(o)
	case *evaluator.Lazy:
		return nil, fmt.Errorf("value was never computed: %s", o.Inspect())
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", obj.Type())
}

// ToExpression converts a Go value to a literal expression, so it can be
// assigned by a statement placed before a program.
func (m *Marshaller) ToExpression(val any) (ast.Expression, error) {
	obj, err := m.ToValue(val)
	if err != nil {
		return nil, err
	}
	return literal(obj)
}

func literal(obj evaluator.Object) (ast.Expression, error) {
	tok := token.Token{Lexeme: obj.Inspect()}
	switch o := obj.(type) {
	case *evaluator.Integer:
		tok.Type = token.INT
		return &ast.IntegerLiteral{Token: tok, Value: o.Value}, nil
	case *evaluator.Float:
		tok.Type = token.FLOAT
		return &ast.FloatLiteral{Token: tok, Value: o.Value}, nil
	case *evaluator.Boolean:
		tok.Type = token.FALSE
		if o.Value {
			tok.Type = token.TRUE
		}
		return &ast.BooleanLiteral{Token: tok, Value: o.Value}, nil
	case *evaluator.String:
		tok.Type = token.STRING
		return &ast.StringLiteral{Token: tok, Value: o.Value}, nil
	case *evaluator.List:
		ll := &ast.ListLiteral{Token: token.Token{Type: token.LBRACKET, Lexeme: "["}}
		for _, el := range o.Elements {
			e, err := literal(el)
			if err != nil {
				return nil, err
			}
			ll.Elements = append(ll.Elements, e)
		}
		return ll, nil
	}
	return nil, fmt.Errorf("no literal form for %s", obj.Type())
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return &evaluator.List{Elements: elements}, nil
}

func (m *Marshaller) listToSlice(l *evaluator.List) ([]any, error) {
	out := make([]any, len(l.Elements))
	for i, el := range l.Elements {
		val, err := m.FromValue(el)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}
