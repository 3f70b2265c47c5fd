package evaluator

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

func TestApplyInfix(t *testing.T) {
	i := func(v int64) Object { return &Integer{Value: v} }
	f := func(v float64) Object { return &Float{Value: v} }
	s := func(v string) Object { return &String{Value: v} }

	tests := []struct {
		op       token.TokenType
		left     Object
		right    Object
		expected string
	}{
		{token.SLASH, i(-7), i(2), "-3"},
		{token.SLASHSLASH, i(-7), i(2), "-4"},
		{token.SLASHSLASH, i(7), i(-2), "-4"},
		{token.SLASHSLASH, i(6), i(3), "2"},
		{token.PERCENT, i(-7), i(2), "1"},
		{token.PERCENT, i(7), i(-2), "-1"},
		{token.SLASH, i(1), f(4), "0.25"},
		{token.SLASHSLASH, f(7), i(2), "3.0"},
		{token.ASTERISK, f(1.5), i(2), "3.0"},
		{token.PLUS, s("ab"), s("c"), "abc"},
		{token.LT, s("a"), s("b"), "true"},
		{token.GTE, i(2), f(2), "true"},
		{token.EQ, i(2), f(2), "true"},
		{token.NOT_EQ, s("2"), i(2), "true"},
		{token.OR, i(0), s(""), "false"},
		{token.PLUS, &List{Elements: []Object{i(1)}}, &List{Elements: []Object{s("x")}}, `[1, "x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.left.Inspect()+string(tt.op)+tt.right.Inspect(), func(t *testing.T) {
			got, err := ApplyInfix(tt.op, tt.left, tt.right)
			be.Err(t, err, nil)
			be.Equal(t, got.Inspect(), tt.expected)
		})
	}
}

func TestApplyInfixFaults(t *testing.T) {
	for _, op := range []token.TokenType{token.SLASH, token.SLASHSLASH, token.PERCENT} {
		_, err := ApplyInfix(op, &Integer{Value: 1}, &Integer{Value: 0})
		be.True(t, errors.Is(err, diagnostics.ErrArithmetic))
		_, err = ApplyInfix(op, &Float{Value: 1}, &Float{Value: 0})
		be.True(t, errors.Is(err, diagnostics.ErrArithmetic))
	}

	_, err := ApplyInfix(token.MINUS, &String{Value: "a"}, &String{Value: "b"})
	be.True(t, errors.Is(err, diagnostics.ErrTypeMismatch))
	_, err = ApplyInfix(token.PLUS, &Boolean{Value: true}, &Integer{Value: 1})
	be.True(t, errors.Is(err, diagnostics.ErrTypeMismatch))
	_, err = ApplyPrefix(token.MINUS, &String{Value: "a"})
	be.True(t, errors.Is(err, diagnostics.ErrTypeMismatch))
}

func TestEqualIsDeep(t *testing.T) {
	a := &List{Elements: []Object{&Integer{Value: 1}, &List{Elements: []Object{&String{Value: "x"}}}}}
	b := &List{Elements: []Object{&Float{Value: 1}, &List{Elements: []Object{&String{Value: "x"}}}}}
	be.True(t, Equal(a, b))
	be.True(t, !Equal(a, &List{}))
	be.True(t, !Equal(TRUE, &Integer{Value: 1}))
}

func TestTruthy(t *testing.T) {
	be.True(t, Truthy(&Integer{Value: -1}))
	be.True(t, !Truthy(&Float{Value: 0}))
	be.True(t, !Truthy(&String{}))
	be.True(t, Truthy(&List{Elements: []Object{FALSE}}))
	be.True(t, !Truthy(FALSE))
}

func TestSizes(t *testing.T) {
	be.Equal(t, SizeOf(nil), int64(0))
	be.Equal(t, (&String{Value: "abcd"}).Size(), int64(20))
	list := &List{Elements: []Object{&Integer{Value: 1}, &String{Value: "ab"}}}
	be.Equal(t, list.Size(), int64(24+8+18))
}
