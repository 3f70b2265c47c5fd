package ast

import (
	"github.com/funvibe/ulto/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	// Kind names the node variant; the profiler keys samples by it.
	Kind() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
	String() string
}

// Node kinds.
const (
	KindProgram      = "Program"
	KindBlock        = "Block"
	KindAssign       = "Assignment"
	KindCompound     = "CompoundAssignment"
	KindIf           = "If"
	KindWhile        = "While"
	KindFor          = "For"
	KindPrint        = "Print"
	KindReverse      = "Reverse"
	KindReverseTrace = "ReverseTrace"
	KindBreak        = "Break"
	KindBinary       = "BinaryOp"
	KindUnary        = "UnaryOp"
	KindLiteral      = "Literal"
	KindIdentifier   = "Identifier"
	KindList         = "List"
	KindIndex        = "Index"
	KindLen          = "Len"
)

// Program is the root node of every tree handed to the core.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) Kind() string { return KindProgram }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

// BlockStatement is an ordered statement sequence; nested blocks recurse.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (bs *BlockStatement) Kind() string          { return KindBlock }
func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }
