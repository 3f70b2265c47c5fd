package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"

	// Operators
	PLUS       TokenType = "+"
	MINUS      TokenType = "-"
	ASTERISK   TokenType = "*"
	SLASH      TokenType = "/"
	SLASHSLASH TokenType = "//"
	PERCENT    TokenType = "%"
	EQ         TokenType = "=="
	NOT_EQ     TokenType = "!="
	LT         TokenType = "<"
	GT         TokenType = ">"
	LTE        TokenType = "<="
	GTE        TokenType = ">="
	AND        TokenType = "and"
	OR         TokenType = "or"
	NOT        TokenType = "not"

	// Assignment operators
	ASSIGN       TokenType = "="
	PLUS_ASSIGN  TokenType = "+="
	MINUS_ASSIGN TokenType = "-="
	MUL_ASSIGN   TokenType = "*="
	DIV_ASSIGN   TokenType = "/="

	// Keywords
	IF       TokenType = "IF"
	ELIF     TokenType = "ELIF"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	PRINT    TokenType = "PRINT"
	REVERSE  TokenType = "REVERSE"
	REVTRACE TokenType = "REVTRACE"
	BREAK    TokenType = "BREAK"
	LEN      TokenType = "LEN"
	LBRACKET TokenType = "["
)

// Token is the unit handed over by the front end. Only the position and
// lexeme survive into the tree; the core never re-lexes.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

// Pos renders the position as line:column, or "" when unknown.
func (t Token) Pos() string {
	if t.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

var binaryOperators = map[TokenType]bool{
	PLUS: true, MINUS: true, ASTERISK: true, SLASH: true, SLASHSLASH: true, PERCENT: true,
	EQ: true, NOT_EQ: true, LT: true, GT: true, LTE: true, GTE: true, AND: true, OR: true,
}

// IsBinaryOperator reports whether op may appear in an infix expression.
func IsBinaryOperator(op TokenType) bool {
	return binaryOperators[op]
}

// IsAssignOperator reports whether op is = or one of the compound forms.
func IsAssignOperator(op TokenType) bool {
	switch op {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MUL_ASSIGN, DIV_ASSIGN:
		return true
	}
	return false
}

// CompoundBase maps a compound assignment operator to its arithmetic operator.
func CompoundBase(op TokenType) (TokenType, bool) {
	switch op {
	case PLUS_ASSIGN:
		return PLUS, true
	case MINUS_ASSIGN:
		return MINUS, true
	case MUL_ASSIGN:
		return ASTERISK, true
	case DIV_ASSIGN:
		return SLASH, true
	}
	return "", false
}
