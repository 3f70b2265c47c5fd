package evaluator

import (
	"github.com/funvibe/ulto/internal/ast"
)

// Lazy is a pending computation bound to a variable. It is forced at most
// once; later reads return the cached value. A fault is returned to every
// read and never cached.
type Lazy struct {
	// Name is the slot the thunk was created for.
	Name string
	Expr ast.Expression

	// scope holds the slots Expr reads as they were when the thunk was
	// created. Slots are never mutated in place, so later assignments to
	// those variables are invisible to the thunk.
	scope     map[string]Object
	engine    *Evaluator
	evaluated bool
	value     Object
}

func (l *Lazy) Type() ObjectType { return LAZY_OBJ }

func (l *Lazy) Inspect() string {
	if l.evaluated {
		return l.value.Inspect()
	}
	return "<lazy " + l.Expr.String() + ">"
}

// Size is the thunk overhead plus its cached value once forced.
func (l *Lazy) Size() int64 {
	if l.evaluated {
		return lazyOverhead + l.value.Size()
	}
	return lazyOverhead
}

// Evaluate returns the cached value, forcing the expression on first use.
func (l *Lazy) Evaluate() (Object, error) {
	if l.evaluated {
		return l.value, nil
	}
	return l.engine.force(l)
}

// newLazy captures the current slot of every variable expr reads.
func newLazy(e *Evaluator, name string, expr ast.Expression) *Lazy {
	scope := make(map[string]Object)
	for _, id := range ast.Identifiers(expr) {
		if obj, ok := e.env.Get(id.Value); ok {
			scope[id.Value] = obj
		}
	}
	return &Lazy{Name: name, Expr: expr, scope: scope, engine: e}
}
