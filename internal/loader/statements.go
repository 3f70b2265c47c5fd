package loader

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/token"
)

var assignOperators = map[string]token.TokenType{
	"=":  token.ASSIGN,
	"+=": token.PLUS_ASSIGN,
	"-=": token.MINUS_ASSIGN,
	"*=": token.MUL_ASSIGN,
	"/=": token.DIV_ASSIGN,
}

func (d *decoder) statements(node *yaml.Node) []ast.Statement {
	node = resolveAlias(node)
	if node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		d.errorf(tok(node, token.ILLEGAL), "expected a sequence of statements")
		return nil
	}
	out := make([]ast.Statement, 0, len(node.Content))
	for _, item := range node.Content {
		if stmt := d.statement(resolveAlias(item)); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (d *decoder) block(node *yaml.Node, at token.Token) *ast.BlockStatement {
	return &ast.BlockStatement{Token: at, Statements: d.statements(node)}
}

func (d *decoder) statement(node *yaml.Node) ast.Statement {
	if node.Kind == yaml.ScalarNode && node.Value == "break" {
		return &ast.BreakStatement{Token: tok(node, token.BREAK)}
	}
	if node.Kind != yaml.MappingNode || len(node.Content) == 0 {
		d.errorf(tok(node, token.ILLEGAL), "statement must be a mapping or `break`")
		return nil
	}
	keyNode := node.Content[0]
	switch keyNode.Value {
	case "assign":
		return d.assign(node)
	case "if":
		return d.ifStatement(node)
	case "while":
		return d.while(node)
	case "for":
		return d.forStatement(node)
	case "print":
		return d.print(node)
	case "reverse":
		return d.reverse(node)
	case "revtrace":
		return d.revtrace(node)
	case "block":
		f := d.fields(node, "block")
		return d.block(f["block"], tok(keyNode, token.ILLEGAL))
	case "break":
		d.fields(node, "break")
		return &ast.BreakStatement{Token: tok(keyNode, token.BREAK)}
	}
	d.errorf(tok(keyNode, token.ILLEGAL), "unknown statement %q", keyNode.Value)
	return nil
}

func (d *decoder) assign(node *yaml.Node) ast.Statement {
	f := d.fields(node, "assign", "value", "op")
	name := d.identifier(f["assign"])
	if name == nil {
		return nil
	}
	stmt := &ast.AssignStatement{Token: name.Token, Name: name, Operator: token.ASSIGN}
	if opNode, ok := f["op"]; ok {
		op, known := assignOperators[opNode.Value]
		if opNode.Kind != yaml.ScalarNode || !known {
			d.errorf(tok(opNode, token.ILLEGAL), "unknown assignment operator %q", opNode.Value)
			return nil
		}
		stmt.Operator = op
	}
	valueNode, ok := f["value"]
	if !ok {
		d.errorf(name.Token, "assignment to %s has no value", name.Value)
		return nil
	}
	if stmt.Value = d.expression(valueNode); stmt.Value == nil {
		return nil
	}
	return stmt
}

func (d *decoder) ifStatement(node *yaml.Node) ast.Statement {
	f := d.fields(node, "if", "then", "elif", "else")
	at := tok(node.Content[0], token.IF)
	stmt := &ast.IfStatement{Token: at, Condition: d.expression(f["if"])}
	stmt.Consequence = d.block(f["then"], at)
	if f["then"] == nil {
		d.errorf(at, "if statement has no `then` block")
	}
	if elifs, ok := f["elif"]; ok {
		if elifs.Kind != yaml.SequenceNode {
			d.errorf(tok(elifs, token.ELIF), "`elif` must be a sequence of {cond, then}")
		} else {
			for _, item := range elifs.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.MappingNode {
					d.errorf(tok(item, token.ELIF), "`elif` entry must be a mapping")
					continue
				}
				ef := d.fields(item, "cond", "then")
				clause := &ast.ElifClause{Token: tok(item, token.ELIF), Condition: d.expression(ef["cond"])}
				clause.Body = d.block(ef["then"], clause.Token)
				stmt.Elifs = append(stmt.Elifs, clause)
			}
		}
	}
	if alt, ok := f["else"]; ok {
		stmt.Alternative = d.block(alt, tok(alt, token.ILLEGAL))
	}
	if stmt.Condition == nil {
		return nil
	}
	return stmt
}

func (d *decoder) while(node *yaml.Node) ast.Statement {
	f := d.fields(node, "while", "do")
	at := tok(node.Content[0], token.WHILE)
	stmt := &ast.WhileStatement{Token: at, Condition: d.expression(f["while"])}
	stmt.Body = d.block(f["do"], at)
	if stmt.Condition == nil {
		return nil
	}
	return stmt
}

func (d *decoder) forStatement(node *yaml.Node) ast.Statement {
	f := d.fields(node, "for", "range", "in", "do")
	at := tok(node.Content[0], token.FOR)
	variable := d.identifier(f["for"])
	if variable == nil {
		return nil
	}
	stmt := &ast.ForStatement{Token: at, Variable: variable}
	rangeNode, hasRange := f["range"]
	inNode, hasIn := f["in"]
	switch {
	case hasRange && hasIn:
		d.errorf(at, "for statement takes either `range` or `in`, not both")
		return nil
	case hasRange:
		if stmt.Range = d.rangeClause(rangeNode); stmt.Range == nil {
			return nil
		}
	case hasIn:
		if stmt.Iterable = d.expression(inNode); stmt.Iterable == nil {
			return nil
		}
	default:
		d.errorf(at, "for statement needs `range` or `in`")
		return nil
	}
	stmt.Body = d.block(f["do"], at)
	return stmt
}

// rangeClause accepts [start, end], [start, end, step] or a mapping with
// start, end and optional step.
func (d *decoder) rangeClause(node *yaml.Node) *ast.RangeClause {
	var start, end, step *yaml.Node
	switch node.Kind {
	case yaml.SequenceNode:
		if n := len(node.Content); n < 2 || n > 3 {
			d.errorf(tok(node, token.ILLEGAL), "range takes 2 or 3 bounds, got %d", n)
			return nil
		}
		start, end = node.Content[0], node.Content[1]
		if len(node.Content) == 3 {
			step = node.Content[2]
		}
	case yaml.MappingNode:
		f := d.fields(node, "start", "end", "step")
		start, end, step = f["start"], f["end"], f["step"]
		if start == nil {
			start = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "0", Line: node.Line, Column: node.Column}
		}
		if end == nil {
			d.errorf(tok(node, token.ILLEGAL), "range needs an `end`")
			return nil
		}
	default:
		d.errorf(tok(node, token.ILLEGAL), "range must be a sequence or a mapping")
		return nil
	}
	rc := &ast.RangeClause{Start: d.expression(start), End: d.expression(end)}
	if step != nil {
		rc.Step = d.expression(step)
	}
	if rc.Start == nil || rc.End == nil || (step != nil && rc.Step == nil) {
		return nil
	}
	return rc
}

// print takes one expression, or a sequence of expressions printed on one line.
func (d *decoder) print(node *yaml.Node) ast.Statement {
	f := d.fields(node, "print")
	at := tok(node.Content[0], token.PRINT)
	stmt := &ast.PrintStatement{Token: at}
	val := f["print"]
	if val == nil {
		return nil
	}
	items := []*yaml.Node{val}
	if val.Kind == yaml.SequenceNode {
		items = val.Content
	}
	for _, item := range items {
		expr := d.expression(item)
		if expr == nil {
			return nil
		}
		stmt.Values = append(stmt.Values, expr)
	}
	if len(stmt.Values) == 0 {
		d.errorf(at, "print needs at least one expression")
		return nil
	}
	return stmt
}

func (d *decoder) reverse(node *yaml.Node) ast.Statement {
	f := d.fields(node, "reverse", "count")
	name := d.identifier(f["reverse"])
	count, ok := d.count(f["count"])
	if name == nil || !ok {
		return nil
	}
	return &ast.ReverseStatement{Token: tok(node.Content[0], token.REVERSE), Name: name, Count: count}
}

func (d *decoder) revtrace(node *yaml.Node) ast.Statement {
	f := d.fields(node, "revtrace", "count")
	name := d.identifier(f["revtrace"])
	count, ok := d.count(f["count"])
	if name == nil || !ok {
		return nil
	}
	return &ast.ReverseTraceStatement{Token: tok(node.Content[0], token.REVTRACE), Name: name, Count: count}
}

// count reads an optional positive count, defaulting to 1.
func (d *decoder) count(node *yaml.Node) (int, bool) {
	if node == nil {
		return 1, true
	}
	n, err := strconv.Atoi(node.Value)
	if node.Kind != yaml.ScalarNode || err != nil || n < 1 {
		d.errorf(tok(node, token.INT), "count must be a positive integer, got %q", node.Value)
		return 0, false
	}
	return n, true
}

func (d *decoder) identifier(node *yaml.Node) *ast.Identifier {
	if node == nil {
		return nil
	}
	if node.Kind != yaml.ScalarNode || node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 ||
		!isIdentifier(node.Value) {
		d.errorf(tok(node, token.IDENT), "%q is not a variable name", node.Value)
		return nil
	}
	return &ast.Identifier{Token: tok(node, token.IDENT), Value: node.Value}
}
