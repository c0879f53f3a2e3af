// File: value.go
// Title: Literal Values
// Description: Value types produced by the reader. Each value remembers
//              the byte span it was read from.
// Author: msto63
// Version: v0.1.0
// Created: 2026-02-12
// Modified: 2026-02-12
//
// Change History:
// - 2026-02-12 v0.1.0: Initial value types

package literal

import (
	"github.com/msto63/sessionkit/internal/scan"
)

// Kind identifies the concrete type of a Value
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindDate
	KindRaw
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is any literal the reader produces
type Value interface {
	Kind() Kind
	Span() scan.Span
}

type node struct {
	span scan.Span
}

// Span returns the source range of the value
func (n node) Span() scan.Span {
	return n.span
}

// Field is one property of an object. Spread entries, computed keys and
// methods have an empty Key and a Raw value holding their source text.
type Field struct {
	Key     string
	KeySpan scan.Span
	Value   Value

	// Span runs from the key to the end of the value, including any
	// trailing tokens the reader skipped, but not the comma
	Span scan.Span

	// Comma is the offset of the comma after the value, or -1
	Comma int
}

// Object is an ordered list of fields. Duplicate keys are kept.
type Object struct {
	node
	Fields []Field
}

// Kind implements Value
func (o *Object) Kind() Kind { return KindObject }

// Get returns the value of the first field named key
func (o *Object) Get(key string) (Value, bool) {
	if f, ok := o.Field(key); ok {
		return f.Value, true
	}
	return nil, false
}

// Field returns the first field named key
func (o *Object) Field(key string) (Field, bool) {
	if o == nil {
		return Field{}, false
	}
	for _, f := range o.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// All returns every field named key in source order
func (o *Object) All(key string) []Field {
	if o == nil {
		return nil
	}
	var out []Field
	for _, f := range o.Fields {
		if f.Key == key {
			out = append(out, f)
		}
	}
	return out
}

// Keys returns the field names in source order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Array holds the elements of an array literal. Elisions are dropped.
type Array struct {
	node
	Elems []Value
}

// Kind implements Value
func (a *Array) Kind() Kind { return KindArray }

// Len returns the number of elements
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Elems)
}

// String is a quoted string with escapes decoded
type String struct {
	node
	Text  string
	Quote byte
}

// Kind implements Value
func (String) Kind() Kind { return KindString }

// Number is an unsigned decimal integer
type Number struct {
	node
	Int  int
	Text string
}

// Kind implements Value
func (Number) Kind() Kind { return KindNumber }

// DateCall is the expression new Date('...') with a single quoted argument
type DateCall struct {
	node
	Arg   string
	Quote byte
}

// Kind implements Value
func (DateCall) Kind() Kind { return KindDate }

// Raw is any expression outside the supported grammar
type Raw struct {
	node
	Text string
}

// Kind implements Value
func (Raw) Kind() Kind { return KindRaw }
