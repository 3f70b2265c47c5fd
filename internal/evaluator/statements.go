package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

func (e *Evaluator) execStatement(node ast.Statement) (ControlSignal, error) {
	tok := node.GetToken()
	e.steps++
	if err := e.checkHost(tok); err != nil {
		return SignalNone, err
	}
	e.Logger.Debug("exec", "kind", node.Kind(), "pos", tok.Pos())

	var (
		sig ControlSignal
		err error
	)
	switch node := node.(type) {
	case *ast.BlockStatement:
		sig, err = e.execBlock(node)
	case *ast.AssignStatement:
		err = e.execAssign(node)
	case *ast.IfStatement:
		sig, err = e.execIf(node)
	case *ast.WhileStatement:
		err = e.execWhile(node)
	case *ast.ForStatement:
		err = e.execFor(node)
	case *ast.PrintStatement:
		err = e.execPrint(node)
	case *ast.ReverseStatement:
		err = e.execReverse(node)
	case *ast.ReverseTraceStatement:
		err = e.execReverseTrace(node)
	case *ast.BreakStatement:
		sig = SignalBreak
	default:
		err = diagnostics.NewError(diagnostics.ErrL001, tok, "unknown statement type: %T", node)
	}
	if err != nil {
		return SignalNone, e.locate(err, tok)
	}
	e.observe(node.Kind())
	return sig, nil
}

// execBlock runs statements in order and stops at the first break.
func (e *Evaluator) execBlock(block *ast.BlockStatement) (ControlSignal, error) {
	if block == nil {
		return SignalNone, nil
	}
	for _, stmt := range block.Statements {
		sig, err := e.execStatement(stmt)
		if err != nil || sig == SignalBreak {
			return sig, err
		}
	}
	return SignalNone, nil
}

func (e *Evaluator) execAssign(node *ast.AssignStatement) error {
	name := node.Name.Value
	old, had := e.env.Get(name)

	var next Object
	switch {
	case node.IsCompound():
		if !had {
			return diagnostics.NewError(diagnostics.ErrS001, node.Token,
				"variable %s is not defined", name).WithVariable(name)
		}
		cur, err := resolve(old)
		if err != nil {
			return err
		}
		rhs, err := e.evalExpression(node.Value)
		if err != nil {
			return err
		}
		op, _ := token.CompoundBase(node.Operator)
		next, err = e.evalInfix(node.Token, op, cur, rhs)
		if err != nil {
			return err
		}
		e.counters.Evaluations++
	case literalObject(node.Value) == nil && (e.eager[name] || immediate(name, node.Value)):
		val, err := e.evalExpression(node.Value)
		if err != nil {
			return err
		}
		next = val
		e.counters.Evaluations++
	default:
		if lit := literalObject(node.Value); lit != nil {
			next = lit
			if e.eager[name] {
				e.counters.Evaluations++
			}
		} else {
			next = newLazy(e, name, node.Value)
		}
	}
	return e.bind(name, next)
}

// immediate reports whether a right-hand side gains nothing from deferral:
// it reads its own target or reads no variable at all.
func immediate(name string, value ast.Expression) bool {
	ids := ast.Identifiers(value)
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id.Value == name {
			return true
		}
	}
	return false
}

// bind replaces the slot of name with next, recording the prior value.
// Nothing is mutated when the ledger rejects the new value.
func (e *Evaluator) bind(name string, next Object) error {
	old, had := e.env.Get(name)
	if err := e.mem.Reallocate(SizeOf(old), next.Size()); err != nil {
		return withVariable(err, name)
	}
	e.history.Record(name, old, had)
	e.env.Set(name, next)
	e.counters.Assignments++
	return nil
}

// force evaluates a thunk for the first time against the slots it captured.
// The value is charged to the ledger only while the thunk occupies its slot.
func (e *Evaluator) force(l *Lazy) (Object, error) {
	val, err := e.evalCaptured(l)
	if err != nil {
		return nil, err
	}
	if cur, ok := e.env.Get(l.Name); ok && cur == Object(l) {
		if err := e.mem.Allocate(val.Size()); err != nil {
			return nil, withVariable(err, l.Name)
		}
	}
	l.value = val
	l.evaluated = true
	l.engine = nil
	l.scope = nil
	e.counters.Evaluations++
	e.Logger.Debug("lazy forced", "name", l.Name, "expr", l.Expr.String())
	return val, nil
}

// evalCaptured evaluates the expression of l with identifiers resolved from
// its captured scope.
func (e *Evaluator) evalCaptured(l *Lazy) (Object, error) {
	saved := e.scope
	e.scope = l.scope
	defer func() { e.scope = saved }()
	return e.evalExpression(l.Expr)
}

func (e *Evaluator) execPrint(node *ast.PrintStatement) error {
	parts := make([]string, 0, len(node.Values))
	for _, expr := range node.Values {
		val, err := e.evalExpression(expr)
		if err != nil {
			return err
		}
		e.counters.Evaluations++
		parts = append(parts, val.Inspect())
	}
	_, err := fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return err
}

// resolve returns the plain value of a slot, forcing a thunk.
func resolve(obj Object) (Object, error) {
	if l, ok := obj.(*Lazy); ok {
		return l.Evaluate()
	}
	return obj, nil
}

func withVariable(err error, name string) error {
	if de, ok := err.(*diagnostics.DiagnosticError); ok && de.Variable == "" {
		de.Variable = name
	}
	return err
}
