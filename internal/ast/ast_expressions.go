package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/ulto/internal/token"
)

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) Kind() string          { return KindIdentifier }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Kind() string          { return KindLiteral }
func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }
func (il *IntegerLiteral) String() string        { return strconv.FormatInt(il.Value, 10) }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Kind() string          { return KindLiteral }
func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }
func (fl *FloatLiteral) String() string {
	s := strconv.FormatFloat(fl.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Kind() string          { return KindLiteral }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Kind() string          { return KindLiteral }
func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }
func (bl *BooleanLiteral) String() string        { return strconv.FormatBool(bl.Value) }

// ListLiteral represents [a, b, c].
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) Kind() string          { return KindList }
func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }
func (ll *ListLiteral) String() string {
	parts := make([]string, len(ll.Elements))
	for i, el := range ll.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PrefixExpression represents a unary operation, e.g. -x or not x.
type PrefixExpression struct {
	Token    token.Token // The prefix token
	Operator token.TokenType
	Right    Expression
}

func (pe *PrefixExpression) Kind() string          { return KindUnary }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	if pe.Operator == token.NOT {
		return "(not " + pe.Right.String() + ")"
	}
	return "(" + string(pe.Operator) + pe.Right.String() + ")"
}

// InfixExpression represents a binary operation, e.g., 5 + 5.
type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator token.TokenType
	Right    Expression
}

func (ie *InfixExpression) Kind() string          { return KindBinary }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + string(ie.Operator) + " " + ie.Right.String() + ")"
}

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Kind() string          { return KindIndex }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// LenExpression is the len(x) builtin over strings and lists.
type LenExpression struct {
	Token    token.Token
	Argument Expression
}

func (le *LenExpression) Kind() string          { return KindLen }
func (le *LenExpression) expressionNode()       {}
func (le *LenExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LenExpression) GetToken() token.Token { return le.Token }
func (le *LenExpression) String() string        { return "len(" + le.Argument.String() + ")" }

// IsLiteral reports whether e is a scalar literal.
func IsLiteral(e Expression) bool {
	switch e.(type) {
	case *IntegerLiteral, *FloatLiteral, *StringLiteral, *BooleanLiteral:
		return true
	}
	return false
}
