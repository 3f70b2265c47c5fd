package evaluator

import (
	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// evalCondition evaluates a branch or loop condition. Every check counts.
func (e *Evaluator) evalCondition(expr ast.Expression) (bool, error) {
	val, err := e.evalExpression(expr)
	if err != nil {
		return false, err
	}
	e.counters.Evaluations++
	e.counters.Conditions++
	return Truthy(val), nil
}

// loopCheck counts one loop check that is not an expression evaluation
// (range bound or iterator exhaustion test).
func (e *Evaluator) loopCheck() {
	e.counters.Evaluations++
	e.counters.Conditions++
}

func (e *Evaluator) execIf(node *ast.IfStatement) (ControlSignal, error) {
	ok, err := e.evalCondition(node.Condition)
	if err != nil {
		return SignalNone, err
	}
	if ok {
		return e.execBlock(node.Consequence)
	}
	for _, elif := range node.Elifs {
		ok, err := e.evalCondition(elif.Condition)
		if err != nil {
			return SignalNone, e.locate(err, elif.Token)
		}
		if ok {
			return e.execBlock(elif.Body)
		}
	}
	if node.Alternative != nil {
		return e.execBlock(node.Alternative)
	}
	return SignalNone, nil
}

func (e *Evaluator) execWhile(node *ast.WhileStatement) error {
	for {
		if err := e.checkHost(node.Token); err != nil {
			return err
		}
		ok, err := e.evalCondition(node.Condition)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		sig, err := e.execBlock(node.Body)
		if err != nil {
			return err
		}
		if sig == SignalBreak {
			return nil
		}
	}
}

func (e *Evaluator) execFor(node *ast.ForStatement) error {
	if node.Range != nil {
		return e.execForRange(node)
	}
	return e.execForEach(node)
}

// execForRange runs `for v in range(start, end, step)`. Bounds are evaluated
// once, before the first check.
func (e *Evaluator) execForRange(node *ast.ForStatement) error {
	start, err := e.evalInt(node.Range.Start)
	if err != nil {
		return err
	}
	end, err := e.evalInt(node.Range.End)
	if err != nil {
		return err
	}
	step := int64(1)
	if node.Range.Step != nil {
		if step, err = e.evalInt(node.Range.Step); err != nil {
			return err
		}
	}
	if step == 0 {
		return diagnostics.NewError(diagnostics.ErrR001, node.Token, "range step must not be zero")
	}

	for i := start; ; i += step {
		if err := e.checkHost(node.Token); err != nil {
			return err
		}
		e.loopCheck()
		if (step > 0 && i >= end) || (step < 0 && i <= end) {
			return nil
		}
		if err := e.bind(node.Variable.Value, &Integer{Value: i}); err != nil {
			return err
		}
		sig, err := e.execBlock(node.Body)
		if err != nil {
			return err
		}
		if sig == SignalBreak {
			return nil
		}
	}
}

// execForEach iterates the elements of a list or the characters of a string.
func (e *Evaluator) execForEach(node *ast.ForStatement) error {
	iterable, err := e.evalExpression(node.Iterable)
	if err != nil {
		return err
	}
	items, err := elementsOf(node.Iterable.GetToken(), iterable)
	if err != nil {
		return err
	}
	for i := 0; ; i++ {
		if err := e.checkHost(node.Token); err != nil {
			return err
		}
		e.loopCheck()
		if i >= len(items) {
			return nil
		}
		if err := e.bind(node.Variable.Value, items[i]); err != nil {
			return err
		}
		sig, err := e.execBlock(node.Body)
		if err != nil {
			return err
		}
		if sig == SignalBreak {
			return nil
		}
	}
}

func (e *Evaluator) evalInt(expr ast.Expression) (int64, error) {
	val, err := e.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	i, ok := val.(*Integer)
	if !ok {
		return 0, diagnostics.NewError(diagnostics.ErrR005, expr.GetToken(),
			"range bound must be INTEGER, got %s", val.Type())
	}
	return i.Value, nil
}

func elementsOf(tok token.Token, obj Object) ([]Object, error) {
	switch v := obj.(type) {
	case *List:
		items := make([]Object, len(v.Elements))
		copy(items, v.Elements)
		return items, nil
	case *String:
		runes := []rune(v.Value)
		items := make([]Object, len(runes))
		for i, r := range runes {
			items[i] = &String{Value: string(r)}
		}
		return items, nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrR005, tok, "cannot iterate over %s", obj.Type())
}
