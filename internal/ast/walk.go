package ast

// Inspect traverses an expression depth-first, calling fn for each node.
// Children are skipped when fn returns false.
func Inspect(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *InfixExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *PrefixExpression:
		Inspect(n.Right, fn)
	case *ListLiteral:
		for _, el := range n.Elements {
			Inspect(el, fn)
		}
	case *IndexExpression:
		Inspect(n.Left, fn)
		Inspect(n.Index, fn)
	case *LenExpression:
		Inspect(n.Argument, fn)
	}
}

// Identifiers returns the distinct identifiers referenced by e, in first-seen order.
func Identifiers(e Expression) []*Identifier {
	var out []*Identifier
	seen := make(map[string]bool)
	Inspect(e, func(n Expression) bool {
		if id, ok := n.(*Identifier); ok && !seen[id.Value] {
			seen[id.Value] = true
			out = append(out, id)
		}
		return true
	})
	return out
}

// References reports whether e reads the variable name.
func References(e Expression, name string) bool {
	found := false
	Inspect(e, func(n Expression) bool {
		if id, ok := n.(*Identifier); ok && id.Value == name {
			found = true
		}
		return !found
	})
	return found
}
