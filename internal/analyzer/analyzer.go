package analyzer

import (
	"fmt"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/symbols"
)

// Analyzer performs semantic analysis on the AST.
type Analyzer struct {
	symbolTable *symbols.SymbolTable
	// HotReferenceThreshold promotes variables read more often than this to
	// eager evaluation. Zero disables promotion.
	HotReferenceThreshold int
	// Eager is filled by Analyze: condition variables plus promoted ones.
	Eager map[string]bool
	// Folded counts the constant sub-expressions replaced by literals.
	Folded int
}

// New creates a new Analyzer with a given symbol table.
func New(symbolTable *symbols.SymbolTable) *Analyzer {
	return &Analyzer{
		symbolTable: symbolTable,
		Eager:       make(map[string]bool),
	}
}

type walker struct {
	symbolTable *symbols.SymbolTable
	errorSet    map[string]*diagnostics.DiagnosticError // Key: "line:col:code" for deduplication
	loopDepth   int
	currentFile string
	eager       map[string]bool
	references  map[string]int
	folded      int
}

// Analyze checks program and returns a copy with constant sub-expressions
// folded. The input tree is not modified. Errors are deduplicated and sorted
// by position; when any are returned the copy must not be executed.
func (a *Analyzer) Analyze(program *ast.Program) (*ast.Program, []*diagnostics.DiagnosticError) {
	w := &walker{
		symbolTable: a.symbolTable,
		errorSet:    make(map[string]*diagnostics.DiagnosticError),
		currentFile: program.File,
		eager:       make(map[string]bool),
		references:  make(map[string]int),
	}

	out := &ast.Program{File: program.File, Statements: w.statements(program.Statements)}

	if a.HotReferenceThreshold > 0 {
		for name, n := range w.references {
			if n > a.HotReferenceThreshold {
				w.eager[name] = true
			}
		}
	}
	for name := range w.eager {
		if sym, ok := a.symbolTable.Find(name); ok {
			sym.Eager = true
		}
	}
	// names read before any assignment are S001 errors and have no symbol
	for name := range a.symbolTable.EagerSet() {
		a.Eager[name] = true
	}
	a.Folded += w.folded
	return out, w.getErrors()
}

// addError adds an error to the walker, deduplicating by position and code
func (w *walker) addError(err *diagnostics.DiagnosticError) {
	if err.File == "" && w.currentFile != "" {
		err.File = w.currentFile
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if _, seen := w.errorSet[key]; !seen {
		w.errorSet[key] = err
	}
}

// getErrors returns all unique errors as a slice, sorted by position
func (w *walker) getErrors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, 0, len(w.errorSet))
	for _, err := range w.errorSet {
		result = append(result, err)
	}
	diagnostics.Sort(result)
	return result
}
