// Package loader decodes syntax-tree documents into ast.Program values.
//
// A tree document is YAML: either a bare sequence of statements or a mapping
// with a `program` key holding one. Node positions come from the YAML nodes,
// so faults point back into the document.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// LoadFile reads and decodes the tree document at path.
func LoadFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a tree document and returns the first fault, if any.
func Parse(data []byte, file string) (*ast.Program, error) {
	program, errs := Decode(data, file)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

// Decode decodes a tree document, collecting every malformed node.
func Decode(data []byte, file string) (*ast.Program, []*diagnostics.DiagnosticError) {
	d := &decoder{file: file}
	program := &ast.Program{File: file}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		d.errorf(token.Token{}, "invalid YAML: %v", err)
		return nil, d.errors
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return program, nil
	}
	root := resolveAlias(doc.Content[0])

	switch root.Kind {
	case yaml.SequenceNode:
		program.Statements = d.statements(root)
	case yaml.MappingNode:
		fields := d.fields(root, "program")
		if body, ok := fields["program"]; ok {
			program.Statements = d.statements(body)
		} else {
			d.errorf(tok(root, token.ILLEGAL), "document must hold a `program` sequence")
		}
	case yaml.ScalarNode:
		if root.ShortTag() != "!!null" {
			d.errorf(tok(root, token.ILLEGAL), "document must be a sequence of statements")
		}
	default:
		d.errorf(tok(root, token.ILLEGAL), "document must be a sequence of statements")
	}

	if len(d.errors) > 0 {
		diagnostics.Sort(d.errors)
		return nil, d.errors
	}
	return program, nil
}

type decoder struct {
	file   string
	errors []*diagnostics.DiagnosticError
}

func (d *decoder) errorf(t token.Token, format string, args ...any) {
	err := diagnostics.NewError(diagnostics.ErrL001, t, format, args...)
	err.File = d.file
	d.errors = append(d.errors, err)
}

// fields indexes a mapping by key, reporting duplicates and keys not in
// allowed. An empty allowed list accepts any key.
func (d *decoder) fields(node *yaml.Node, allowed ...string) map[string]*yaml.Node {
	out := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], resolveAlias(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			d.errorf(tok(key, token.ILLEGAL), "mapping keys must be scalars")
			continue
		}
		if _, dup := out[key.Value]; dup {
			d.errorf(tok(key, token.ILLEGAL), "duplicate key %q", key.Value)
			continue
		}
		if len(allowed) > 0 && !contains(allowed, key.Value) {
			d.errorf(tok(key, token.ILLEGAL), "unexpected key %q", key.Value)
			continue
		}
		out[key.Value] = val
	}
	return out
}

func tok(n *yaml.Node, typ token.TokenType) token.Token {
	return token.Token{Type: typ, Lexeme: n.Value, Line: n.Line, Column: n.Column}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return !reserved[s]
}

var reserved = map[string]bool{
	"and": true, "or": true, "not": true, "true": true, "false": true,
	"if": true, "elif": true, "else": true, "while": true, "for": true, "in": true,
	"print": true, "reverse": true, "revtrace": true, "break": true, "len": true,
}
