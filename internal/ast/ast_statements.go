package ast

import (
	"github.com/funvibe/ulto/internal/token"
)

// AssignStatement covers = and the compound forms += -= *= /=.
type AssignStatement struct {
	Token    token.Token // the target identifier token
	Name     *Identifier
	Operator token.TokenType
	Value    Expression
}

func (as *AssignStatement) Kind() string {
	if as.IsCompound() {
		return KindCompound
	}
	return KindAssign
}
func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// IsCompound reports whether this is +=, -=, *= or /=.
func (as *AssignStatement) IsCompound() bool {
	return as.Operator != token.ASSIGN && as.Operator != ""
}

// ElifClause is one `elif cond:` arm of an if statement.
type ElifClause struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Elifs       []*ElifClause
	Alternative *BlockStatement // nil when there is no else
}

func (is *IfStatement) Kind() string          { return KindIf }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) Kind() string          { return KindWhile }
func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// RangeClause is range(start, end[, step]); Step is nil for the default of 1.
type RangeClause struct {
	Start Expression
	End   Expression
	Step  Expression
}

// ForStatement iterates either a range or the value of Iterable (list or
// string). Exactly one of Range and Iterable is set.
type ForStatement struct {
	Token    token.Token // The 'for' token
	Variable *Identifier
	Range    *RangeClause
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForStatement) Kind() string          { return KindFor }
func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

// Conditions returns the expressions the loop consults on each check.
func (fs *ForStatement) Conditions() []Expression {
	if fs.Range == nil {
		return []Expression{fs.Iterable}
	}
	exprs := []Expression{fs.Range.Start, fs.Range.End}
	if fs.Range.Step != nil {
		exprs = append(exprs, fs.Range.Step)
	}
	return exprs
}

type PrintStatement struct {
	Token  token.Token // The 'print' token
	Values []Expression
}

func (ps *PrintStatement) Kind() string          { return KindPrint }
func (ps *PrintStatement) statementNode()        {}
func (ps *PrintStatement) TokenLiteral() string  { return ps.Token.Lexeme }
func (ps *PrintStatement) GetToken() token.Token { return ps.Token }

// ReverseStatement is REVERSE <name> [count].
type ReverseStatement struct {
	Token token.Token
	Name  *Identifier
	Count int
}

func (rs *ReverseStatement) Kind() string          { return KindReverse }
func (rs *ReverseStatement) statementNode()        {}
func (rs *ReverseStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReverseStatement) GetToken() token.Token { return rs.Token }

// ReverseTraceStatement is REVTRACE <name> [count].
type ReverseTraceStatement struct {
	Token token.Token
	Name  *Identifier
	Count int
}

func (rt *ReverseTraceStatement) Kind() string          { return KindReverseTrace }
func (rt *ReverseTraceStatement) statementNode()        {}
func (rt *ReverseTraceStatement) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *ReverseTraceStatement) GetToken() token.Token { return rt.Token }

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) Kind() string          { return KindBreak }
func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }
