package symbols

import (
	"testing"

	"github.com/funvibe/ulto/internal/token"
	"github.com/nalgeon/be"
)

func TestDefineKeepsFirstDeclaration(t *testing.T) {
	st := NewSymbolTable()
	first := st.Define("a", VariableSymbol, token.Token{Line: 1, Column: 3})
	again := st.Define("a", VariableSymbol, token.Token{Line: 9, Column: 1})

	be.True(t, first == again)
	be.Equal(t, again.Token.Line, 1)
	be.Equal(t, st.Names(), []string{"a"})
}

func TestLoopScopeHoldsOnlyTheLoopVariable(t *testing.T) {
	global := NewSymbolTable()
	global.Define("n", VariableSymbol, token.Token{})

	loop := NewEnclosedSymbolTable(global, ScopeLoop)
	loop.Define("i", LoopVariableSymbol, token.Token{})
	loop.Define("total", VariableSymbol, token.Token{})

	be.True(t, loop.IsDefined("n"))
	be.True(t, loop.IsDefined("i"))
	be.True(t, global.IsDefined("total"))
	be.True(t, !global.IsDefined("i"))
	be.Equal(t, global.Names(), []string{"n", "total"})
	be.True(t, !loop.IsGlobalScope())
	be.True(t, loop.Outer() == global)
}

func TestCloseKeepsLoopVariableBound(t *testing.T) {
	global := NewSymbolTable()
	global.Define("n", VariableSymbol, token.Token{})
	loop := NewEnclosedSymbolTable(global, ScopeLoop)
	loop.Define("i", LoopVariableSymbol, token.Token{Line: 4})

	be.True(t, loop.Close() == global)
	sym, ok := global.Find("i")
	be.True(t, ok)
	be.Equal(t, sym.Kind, LoopVariableSymbol)
	be.Equal(t, global.Names(), []string{"n", "i"})
	be.True(t, global.Close() == global)
}

func TestEagerSet(t *testing.T) {
	st := NewSymbolTable()
	st.Define("x", VariableSymbol, token.Token{}).Eager = true
	st.Define("y", VariableSymbol, token.Token{})

	be.Equal(t, st.EagerSet(), map[string]bool{"x": true})
	be.Equal(t, st.Len(), 2)
}
