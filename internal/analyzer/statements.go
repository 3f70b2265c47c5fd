package analyzer

import (
	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/symbols"
)

func (w *walker) statements(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		if s := w.statement(stmt); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (w *walker) block(b *ast.BlockStatement) *ast.BlockStatement {
	if b == nil {
		return nil
	}
	return &ast.BlockStatement{Token: b.Token, Statements: w.statements(b.Statements)}
}

// statement checks one statement and returns its folded copy.
func (w *walker) statement(stmt ast.Statement) ast.Statement {
	switch n := stmt.(type) {
	case *ast.BlockStatement:
		return w.block(n)

	case *ast.AssignStatement:
		cp := *n
		if n.IsCompound() {
			w.requireDefined(n.Name)
		}
		cp.Value = w.expression(n.Value)
		w.symbolTable.Define(n.Name.Value, symbols.VariableSymbol, n.Token).Assignments++
		return &cp

	case *ast.IfStatement:
		cp := *n
		cp.Condition = w.condition(n.Condition)
		cp.Consequence = w.block(n.Consequence)
		cp.Elifs = make([]*ast.ElifClause, len(n.Elifs))
		for i, elif := range n.Elifs {
			cp.Elifs[i] = &ast.ElifClause{
				Token:     elif.Token,
				Condition: w.condition(elif.Condition),
				Body:      w.block(elif.Body),
			}
		}
		cp.Alternative = w.block(n.Alternative)
		return &cp

	case *ast.WhileStatement:
		cp := *n
		cp.Condition = w.condition(n.Condition)
		w.loopDepth++
		cp.Body = w.block(n.Body)
		w.loopDepth--
		return &cp

	case *ast.ForStatement:
		return w.forStatement(n)

	case *ast.PrintStatement:
		cp := *n
		cp.Values = make([]ast.Expression, len(n.Values))
		for i, v := range n.Values {
			cp.Values[i] = w.expression(v)
		}
		return &cp

	case *ast.ReverseStatement:
		w.requireDefined(n.Name)
		cp := *n
		return &cp

	case *ast.ReverseTraceStatement:
		w.requireDefined(n.Name)
		cp := *n
		return &cp

	case *ast.BreakStatement:
		if w.loopDepth == 0 {
			w.addError(diagnostics.NewError(diagnostics.ErrS002, n.Token, "break outside of a loop"))
		}
		cp := *n
		return &cp
	}
	w.addError(diagnostics.NewError(diagnostics.ErrL001, stmt.GetToken(), "unknown statement type: %T", stmt))
	return nil
}

// forStatement checks the header in the enclosing scope and the body in a
// loop scope holding the loop variable. The variable stays bound after the
// loop, like any other assignment.
func (w *walker) forStatement(n *ast.ForStatement) ast.Statement {
	cp := *n
	if n.Range != nil {
		rc := &ast.RangeClause{Start: w.condition(n.Range.Start), End: w.condition(n.Range.End)}
		if n.Range.Step != nil {
			rc.Step = w.condition(n.Range.Step)
		}
		cp.Range = rc
	} else {
		cp.Iterable = w.condition(n.Iterable)
	}

	w.symbolTable = symbols.NewEnclosedSymbolTable(w.symbolTable, symbols.ScopeLoop)
	w.symbolTable.Define(n.Variable.Value, symbols.LoopVariableSymbol, n.Variable.Token).Assignments++
	w.loopDepth++
	cp.Body = w.block(n.Body)
	w.loopDepth--
	w.symbolTable = w.symbolTable.Close()
	return &cp
}

func (w *walker) requireDefined(id *ast.Identifier) {
	if !w.symbolTable.IsDefined(id.Value) {
		w.addError(diagnostics.NewError(diagnostics.ErrS001, id.Token,
			"variable %s is used before it is assigned", id.Value).WithVariable(id.Value))
	}
}
