package loader

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/token"
)

var unaryOperators = map[string]token.TokenType{
	"-":   token.MINUS,
	"not": token.NOT,
}

// expression decodes one expression node:
//
//	42, 2.5, true          literals
//	"text", 'text'         string literals (quoted scalars)
//	name                   variable
//	[a, b]                 list literal
//	{"+": [a, b]}          binary operator
//	{"-": a}, {not: a}     unary operator
//	{index: [xs, i]}       indexing
//	{len: xs}              length
//	{list: [a, b]}         list literal
//	{str: text}            string literal, for text that is not quoted
func (d *decoder) expression(node *yaml.Node) ast.Expression {
	node = resolveAlias(node)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return d.scalar(node)
	case yaml.SequenceNode:
		return d.list(node, tok(node, token.LBRACKET))
	case yaml.MappingNode:
		return d.compound(node)
	}
	d.errorf(tok(node, token.ILLEGAL), "unsupported expression node")
	return nil
}

func (d *decoder) scalar(node *yaml.Node) ast.Expression {
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return &ast.StringLiteral{Token: tok(node, token.STRING), Value: node.Value}
	}
	switch node.ShortTag() {
	case "!!int":
		v, err := strconv.ParseInt(strings.ReplaceAll(node.Value, "_", ""), 0, 64)
		if err != nil {
			d.errorf(tok(node, token.INT), "invalid integer %q: %v", node.Value, err)
			return nil
		}
		return &ast.IntegerLiteral{Token: tok(node, token.INT), Value: v}
	case "!!float":
		v, err := strconv.ParseFloat(strings.ReplaceAll(node.Value, "_", ""), 64)
		if err != nil {
			d.errorf(tok(node, token.FLOAT), "invalid float %q: %v", node.Value, err)
			return nil
		}
		return &ast.FloatLiteral{Token: tok(node, token.FLOAT), Value: v}
	case "!!bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			d.errorf(tok(node, token.TRUE), "invalid boolean %q", node.Value)
			return nil
		}
		typ := token.FALSE
		if v {
			typ = token.TRUE
		}
		return &ast.BooleanLiteral{Token: tok(node, typ), Value: v}
	case "!!null":
		d.errorf(tok(node, token.ILLEGAL), "missing expression")
		return nil
	}
	if !isIdentifier(node.Value) {
		d.errorf(tok(node, token.IDENT), "%q is not a variable name; quote string literals", node.Value)
		return nil
	}
	return &ast.Identifier{Token: tok(node, token.IDENT), Value: node.Value}
}

func (d *decoder) list(node *yaml.Node, at token.Token) ast.Expression {
	if node.Kind != yaml.SequenceNode {
		d.errorf(at, "list elements must be a sequence")
		return nil
	}
	ll := &ast.ListLiteral{Token: at, Elements: make([]ast.Expression, 0, len(node.Content))}
	for _, item := range node.Content {
		el := d.expression(item)
		if el == nil {
			return nil
		}
		ll.Elements = append(ll.Elements, el)
	}
	return ll
}

func (d *decoder) compound(node *yaml.Node) ast.Expression {
	if len(node.Content) != 2 {
		d.errorf(tok(node, token.ILLEGAL), "expression mapping must have exactly one key")
		return nil
	}
	key, val := node.Content[0], resolveAlias(node.Content[1])
	switch key.Value {
	case "list":
		return d.list(val, tok(key, token.LBRACKET))
	case "str":
		if val.Kind != yaml.ScalarNode {
			d.errorf(tok(key, token.STRING), "`str` takes a scalar")
			return nil
		}
		return &ast.StringLiteral{Token: tok(val, token.STRING), Value: val.Value}
	case "len":
		arg := d.expression(val)
		if arg == nil {
			return nil
		}
		return &ast.LenExpression{Token: tok(key, token.LEN), Argument: arg}
	case "index":
		operands := d.operands(key, val, 2)
		if operands == nil {
			return nil
		}
		return &ast.IndexExpression{Token: tok(key, token.LBRACKET), Left: operands[0], Index: operands[1]}
	}

	op := token.TokenType(key.Value)
	if val.Kind != yaml.SequenceNode || len(val.Content) == 1 {
		uop, ok := unaryOperators[key.Value]
		if !ok {
			d.errorf(tok(key, token.ILLEGAL), "unknown unary operator %q", key.Value)
			return nil
		}
		operand := val
		if val.Kind == yaml.SequenceNode {
			operand = val.Content[0]
		}
		right := d.expression(operand)
		if right == nil {
			return nil
		}
		return &ast.PrefixExpression{Token: tok(key, uop), Operator: uop, Right: right}
	}
	if !token.IsBinaryOperator(op) {
		d.errorf(tok(key, token.ILLEGAL), "unknown operator %q", key.Value)
		return nil
	}
	operands := d.operands(key, val, 2)
	if operands == nil {
		return nil
	}
	return &ast.InfixExpression{Token: tok(key, op), Left: operands[0], Operator: op, Right: operands[1]}
}

func (d *decoder) operands(key, val *yaml.Node, n int) []ast.Expression {
	if val.Kind != yaml.SequenceNode || len(val.Content) != n {
		d.errorf(tok(key, token.ILLEGAL), "%q takes %d operands", key.Value, n)
		return nil
	}
	out := make([]ast.Expression, n)
	for i, item := range val.Content {
		if out[i] = d.expression(item); out[i] == nil {
			return nil
		}
	}
	return out
}
