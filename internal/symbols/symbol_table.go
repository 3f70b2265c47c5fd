// Package symbols records the variables a program declares, in the order the
// analyzer first sees them, with the facts later stages need about each.
package symbols

import (
	"github.com/funvibe/ulto/internal/token"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // program top level; every assignment lands here
	ScopeLoop                    // body of a for statement; holds the loop variable only
)

const (
	VariableSymbol SymbolKind = iota
	LoopVariableSymbol
)

type Symbol struct {
	Name string
	Kind SymbolKind
	// Token is the position of the declaring assignment or loop.
	Token token.Token
	// References counts static reads of the name.
	References int
	// Assignments counts static assignments to the name.
	Assignments int
	// Eager marks names whose assignments are evaluated immediately.
	Eager bool
}

// SymbolTable is one scope. Lookups walk outward to the global scope.
type SymbolTable struct {
	store     map[string]*Symbol
	order     []string
	outer     *SymbolTable
	scopeType ScopeType
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{store: make(map[string]*Symbol), scopeType: ScopeGlobal}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsGlobalScope returns true if this symbol table is the root (global) scope.
func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

func (s *SymbolTable) global() *SymbolTable {
	for !s.IsGlobalScope() {
		s = s.Outer()
	}
	return s
}

// Define registers name on its first declaration and returns its symbol.
// Loop variables live in the current scope; everything else is global.
func (s *SymbolTable) Define(name string, kind SymbolKind, tok token.Token) *Symbol {
	if sym, ok := s.Find(name); ok {
		return sym
	}
	target := s
	if kind != LoopVariableSymbol {
		target = s.global()
	}
	sym := &Symbol{Name: name, Kind: kind, Token: tok}
	target.store[name] = sym
	target.order = append(target.order, name)
	return sym
}

// Close moves the symbols of a loop scope into its outer scope, since a loop
// variable stays bound after the loop finishes. It returns the outer scope.
func (s *SymbolTable) Close() *SymbolTable {
	if s.IsGlobalScope() {
		return s
	}
	for _, name := range s.order {
		if _, ok := s.outer.store[name]; !ok {
			s.outer.store[name] = s.store[name]
			s.outer.order = append(s.outer.order, name)
		}
	}
	return s.outer
}

func (s *SymbolTable) Find(name string) (*Symbol, bool) {
	sym, ok := s.store[name]
	if !ok && s.outer != nil {
		return s.outer.Find(name)
	}
	return sym, ok
}

func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.Find(name)
	return ok
}

// Names returns the names defined in this scope in declaration order.
func (s *SymbolTable) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *SymbolTable) Len() int { return len(s.store) }

// EagerSet returns the names marked eager in this scope.
func (s *SymbolTable) EagerSet() map[string]bool {
	out := make(map[string]bool)
	for name, sym := range s.store {
		if sym.Eager {
			out[name] = true
		}
	}
	return out
}
