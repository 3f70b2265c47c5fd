package evaluator

import (
	"strconv"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	STRING_OBJ  = "STRING"
	BOOLEAN_OBJ = "BOOLEAN"
	LIST_OBJ    = "LIST"
	LAZY_OBJ    = "LAZY"
)

// Simulated byte costs charged to the memory ledger.
const (
	intSize      = 8
	floatSize    = 8
	boolSize     = 1
	stringHeader = 16
	listHeader   = 24
	lazyOverhead = 32
)

type Object interface {
	Type() ObjectType
	Inspect() string
	// Size is the number of bytes the value costs on the memory ledger.
	Size() int64
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Size() int64      { return intSize }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}
func (f *Float) Size() int64 { return floatSize }

// String prints raw; inside a list it is quoted.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) Size() int64      { return stringHeader + int64(len(s.Value)) }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Size() int64      { return boolSize }

// List
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = repr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Size() int64 {
	total := int64(listHeader)
	for _, el := range l.Elements {
		total += el.Size()
	}
	return total
}

// repr renders a value as it appears nested in a list.
func repr(obj Object) string {
	if s, ok := obj.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return obj.Inspect()
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Display renders a value for output, resolving evaluated thunks.
func Display(obj Object) string {
	if l, ok := obj.(*Lazy); ok && l.evaluated {
		return l.value.Inspect()
	}
	return obj.Inspect()
}
