package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
)

// execReverse restores up to Count prior values of a variable, newest first.
// Each step is committed on its own; a fault stops the remaining steps.
func (e *Evaluator) execReverse(node *ast.ReverseStatement) error {
	name := node.Name.Value
	count := max(node.Count, 1)
	for step := 0; step < count; step++ {
		if err := e.reverseOnce(node, name); err != nil {
			return err
		}
	}
	return nil
}

// reverseOnce restores the newest prior value of name. The entry written by
// the first assignment has no prior value and marks the floor of the history.
func (e *Evaluator) reverseOnce(node *ast.ReverseStatement, name string) error {
	top := e.history.History(name, 1)
	if len(top) == 0 || !top[0].HasPrior {
		return diagnostics.NewError(diagnostics.ErrR002, node.Token,
			"no history left to reverse %s", name).WithVariable(name)
	}
	prior := top[0].Prior

	cur, _ := e.env.Get(name)
	if err := e.mem.Reallocate(SizeOf(cur), prior.Size()); err != nil {
		return withVariable(err, name)
	}
	e.env.Set(name, prior)
	if _, err := e.history.PopVar(name); err != nil {
		return err
	}
	e.counters.Reversals++

	val, err := resolve(prior)
	if err != nil {
		return err
	}
	e.Logger.Debug("reversed", "name", name, "value", val.Inspect())
	_, err = fmt.Fprintf(e.Out, "%s -> %s\n", name, val.Inspect())
	return err
}

// execReverseTrace prints the most recent prior values of a variable without
// touching the history or the symbol table.
func (e *Evaluator) execReverseTrace(node *ast.ReverseTraceStatement) error {
	name := node.Name.Value
	var values []string
	for _, entry := range e.history.History(name, max(node.Count, 1)) {
		if !entry.HasPrior {
			break
		}
		val, err := resolve(entry.Prior)
		if err != nil {
			return err
		}
		values = append(values, repr(val))
	}
	if len(values) == 0 {
		_, err := fmt.Fprintf(e.Out, "revtrace %s: no history\n", name)
		return err
	}
	_, err := fmt.Fprintf(e.Out, "revtrace %s: [%s]\n", name, strings.Join(values, ", "))
	return err
}
