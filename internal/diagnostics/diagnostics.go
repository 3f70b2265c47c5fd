// Package diagnostics defines the fault taxonomy shared by the loader, the
// analyzer and the evaluator.
package diagnostics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/ulto/internal/token"
)

type ErrorCode string

const (
	// Syntax faults (tree loading)
	ErrL001 ErrorCode = "L001" // malformed syntax tree

	// Semantic faults
	ErrS001 ErrorCode = "S001" // undefined variable
	ErrS002 ErrorCode = "S002" // break outside loop

	// Runtime faults
	ErrR001 ErrorCode = "R001" // arithmetic (division by zero)
	ErrR002 ErrorCode = "R002" // empty history
	ErrR003 ErrorCode = "R003" // memory limit exceeded
	ErrR004 ErrorCode = "R004" // accounting underflow
	ErrR005 ErrorCode = "R005" // operand type mismatch
	ErrR006 ErrorCode = "R006" // cancelled by host
	ErrR007 ErrorCode = "R007" // step budget exceeded
	ErrR008 ErrorCode = "R008" // index out of range
)

// Kind groups codes into the three fault families.
type Kind int

const (
	KindSyntax Kind = iota
	KindSemantic
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxFault"
	case KindSemantic:
		return "SemanticFault"
	default:
		return "RuntimeFault"
	}
}

type codeInfo struct {
	kind Kind
	name string
}

var codes = map[ErrorCode]codeInfo{
	ErrL001: {KindSyntax, "MalformedTree"},
	ErrS001: {KindSemantic, "UndefinedVariable"},
	ErrS002: {KindSemantic, "InvalidBreak"},
	ErrR001: {KindRuntime, "ArithmeticError"},
	ErrR002: {KindRuntime, "EmptyHistoryError"},
	ErrR003: {KindRuntime, "MemoryLimitExceeded"},
	ErrR004: {KindRuntime, "AccountingError"},
	ErrR005: {KindRuntime, "TypeError"},
	ErrR006: {KindRuntime, "Cancelled"},
	ErrR007: {KindRuntime, "StepBudgetExceeded"},
	ErrR008: {KindRuntime, "IndexError"},
}

// Sentinels for errors.Is. They match any DiagnosticError with the same code.
var (
	ErrMalformedTree       = &DiagnosticError{Code: ErrL001}
	ErrUndefinedVariable   = &DiagnosticError{Code: ErrS001}
	ErrInvalidBreak        = &DiagnosticError{Code: ErrS002}
	ErrArithmetic          = &DiagnosticError{Code: ErrR001}
	ErrEmptyHistory        = &DiagnosticError{Code: ErrR002}
	ErrMemoryLimitExceeded = &DiagnosticError{Code: ErrR003}
	ErrAccounting          = &DiagnosticError{Code: ErrR004}
	ErrTypeMismatch        = &DiagnosticError{Code: ErrR005}
	ErrCancelled           = &DiagnosticError{Code: ErrR006}
	ErrStepBudget          = &DiagnosticError{Code: ErrR007}
	ErrIndexOutOfRange     = &DiagnosticError{Code: ErrR008}
)

// DiagnosticError is a fault with a code, a position and, when relevant, the
// variable it concerns.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Variable string
	Message  string
}

// NewError builds a DiagnosticError positioned at tok.
func NewError(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithVariable attaches the offending variable name.
func (e *DiagnosticError) WithVariable(name string) *DiagnosticError {
	e.Variable = name
	return e
}

func (e *DiagnosticError) Kind() Kind {
	return codes[e.Code].kind
}

// Name is the fault name within its kind, e.g. "ArithmeticError".
func (e *DiagnosticError) Name() string {
	if info, ok := codes[e.Code]; ok {
		return info.name
	}
	return string(e.Code)
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if pos := e.Token.Pos(); pos != "" {
		b.WriteString(pos)
		b.WriteString(": ")
	} else if e.File != "" {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%s/%s (%s): %s", e.Kind(), e.Name(), e.Code, e.Message)
	return b.String()
}

// Is matches sentinels: a target without a message matches on code alone.
func (e *DiagnosticError) Is(target error) bool {
	t, ok := target.(*DiagnosticError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Code == e.Code
	}
	return t == e
}

// KindOf reports the fault kind of err, if it is a DiagnosticError.
func KindOf(err error) (Kind, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Kind(), true
	}
	return 0, false
}

// Sort orders errors by line then column, for deterministic reporting.
func Sort(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Token.Line != errs[j].Token.Line {
			return errs[i].Token.Line < errs[j].Token.Line
		}
		return errs[i].Token.Column < errs[j].Token.Column
	})
}
