// File: fields.go
// Title: Field Extractors
// Description: Typed lookups over a parsed record. Every extractor treats a
//              missing field, or a field in an unsupported form, as absence.
// Author: msto63
// Version: v0.2.0
// Created: 2026-02-13
// Modified: 2026-03-04
//
// Change History:
// - 2026-02-13 v0.1.0: Initial extractors
// - 2026-03-04 v0.2.0: IntField distinguishes malformed from absent

package extract

import (
	"strings"
	"time"

	"github.com/msto63/sessionkit/internal/literal"
	"github.com/msto63/sessionkit/internal/scan"
)

// DateLayout is the only accepted date argument format
const DateLayout = "2006-01-02"

// String returns the value of a field holding a single- or double-quoted
// string. Template strings are not accepted.
func String(obj *literal.Object, name string) (string, bool) {
	v, ok := obj.Get(name)
	if !ok {
		return "", false
	}
	return quoted(v)
}

// Int returns the value of a field holding an unsigned decimal integer
func Int(obj *literal.Object, name string) (int, bool) {
	r := IntField(obj, name)
	return r.Value, r.State == Present
}

// IntState classifies an integer field lookup
type IntState int

const (
	Absent IntState = iota
	Present
	Malformed
)

// String returns a string representation of the state
func (s IntState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// IntResult is the outcome of IntField. Source holds the field's value text
// when the state is Malformed.
type IntResult struct {
	State  IntState
	Value  int
	Source string
}

// IntField looks up an integer field and reports whether it is absent,
// present or present with a value that is not an unsigned integer
func IntField(obj *literal.Object, name string) IntResult {
	f, ok := obj.Field(name)
	if !ok {
		return IntResult{State: Absent}
	}
	if n, ok := f.Value.(literal.Number); ok {
		return IntResult{State: Present, Value: n.Int}
	}
	return IntResult{State: Malformed, Source: describe(f.Value)}
}

// Date returns the date of a field written as new Date('YYYY-MM-DD').
// Other forms and impossible calendar dates yield absence.
func Date(obj *literal.Object, name string) (time.Time, bool) {
	v, ok := obj.Get(name)
	if !ok {
		return time.Time{}, false
	}
	call, ok := v.(literal.DateCall)
	if !ok || (call.Quote != '\'' && call.Quote != '"') || len(call.Arg) != len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, call.Arg)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// List returns the array held by a field
func List(obj *literal.Object, name string) (*literal.Array, bool) {
	v, ok := obj.Get(name)
	if !ok {
		return nil, false
	}
	arr, ok := v.(*literal.Array)
	return arr, ok
}

// Object returns the nested object held by a field
func Object(obj *literal.Object, name string) (*literal.Object, bool) {
	v, ok := obj.Get(name)
	if !ok {
		return nil, false
	}
	nested, ok := v.(*literal.Object)
	return nested, ok
}

// ListBody works on raw text: it finds the first code occurrence of name
// inside span, the first '[' after it, and returns the bracket contents.
// It needs no parse of the record, which the editor relies on.
func ListBody(buf []byte, span scan.Span, name string) (scan.Span, bool) {
	at := scan.FindIdent(buf, span, name)
	if at < 0 {
		return scan.Span{}, false
	}
	open := scan.IndexCode(buf[:span.End], at+len(name), func(pos int) bool {
		return buf[pos] == '['
	})
	if open < 0 {
		return scan.Span{}, false
	}
	body, ok := scan.ExtractBrackets(buf[:span.End], open)
	if !ok {
		return scan.Span{}, false
	}
	return body, true
}

// Strings returns the quoted string elements of arr, trimmed, skipping
// empty strings and every non-string element
func Strings(arr *literal.Array) []string {
	if arr == nil {
		return nil
	}
	var out []string
	for _, elem := range arr.Elems {
		if s, ok := quoted(elem); ok {
			out = appendTrimmed(out, s)
		}
	}
	return out
}

// FieldStrings returns the string field key of every object element of
// arr, trimmed, skipping elements without it
func FieldStrings(arr *literal.Array, key string) []string {
	if arr == nil {
		return nil
	}
	var out []string
	for _, elem := range arr.Elems {
		obj, ok := elem.(*literal.Object)
		if !ok {
			continue
		}
		if s, ok := String(obj, key); ok {
			out = appendTrimmed(out, s)
		}
	}
	return out
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func quoted(v literal.Value) (string, bool) {
	s, ok := v.(literal.String)
	if !ok || s.Quote == '`' {
		return "", false
	}
	return s.Text, true
}

func describe(v literal.Value) string {
	switch val := v.(type) {
	case literal.String:
		return string(val.Quote) + val.Text + string(val.Quote)
	case literal.Raw:
		return val.Text
	case literal.DateCall:
		return "new Date(" + string(val.Quote) + val.Arg + string(val.Quote) + ")"
	default:
		return v.Kind().String()
	}
}
