// File: table.go
// Title: Homework Instruction Table
// Description: Immutable mapping from session number to homework
//              instruction, loaded from YAML. An explicit None entry means
//              "this session has no homework", which differs from a session
//              missing from the table.
// Author: msto63
// Version: v0.1.1
// Created: 2026-02-20
// Modified: 2026-10-16
//
// Change History:
// - 2026-02-20 v0.1.0: Initial table
// - 2026-10-16 v0.1.1: Coded load errors

package homework

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/version"
)

//go:embed default.yaml
var defaultYAML []byte

// Instruction is either a text to insert or None
type Instruction struct {
	text string
	some bool
}

// Text returns an instruction carrying s
func Text(s string) Instruction {
	return Instruction{text: s, some: true}
}

// None returns the instruction for a session without homework
func None() Instruction {
	return Instruction{}
}

// Value returns the text and true, or "" and false for None
func (i Instruction) Value() (string, bool) {
	return i.text, i.some
}

// IsNone reports whether the instruction is None
func (i Instruction) IsNone() bool {
	return !i.some
}

// String returns the text, or "<none>"
func (i Instruction) String() string {
	if !i.some {
		return "<none>"
	}
	return i.text
}

// Table maps session numbers to instructions. It is never modified after
// construction and may be shared between goroutines.
type Table struct {
	numbers []int
	entries map[int]Instruction
}

// NewTable copies m into a new table
func NewTable(m map[int]Instruction) *Table {
	t := &Table{entries: make(map[int]Instruction, len(m))}
	for n, instr := range m {
		t.entries[n] = instr
		t.numbers = append(t.numbers, n)
	}
	sort.Ints(t.numbers)
	return t
}

// Lookup returns the instruction for session n and whether n is in the table
func (t *Table) Lookup(n int) (Instruction, bool) {
	instr, ok := t.entries[n]
	return instr, ok
}

// Numbers returns the session numbers in ascending order
func (t *Table) Numbers() []int {
	return append([]int(nil), t.numbers...)
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.numbers)
}

// tableFile is the YAML layout:
//
//	version: "1"
//	sessions:
//	  1: "text"
//	  16: null
type tableFile struct {
	Version  string          `yaml:"version"`
	Sessions map[int]*string `yaml:"sessions"`
}

// LoadTable reads a table from YAML. Unknown top-level keys are rejected.
func LoadTable(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file tableFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil), nil
		}
		return nil, errors.Wrap(err, errors.CodeConfig, "decode homework table")
	}

	if file.Version != "" && file.Version != version.Homework {
		return nil, errors.Newf(errors.CodeConfig, "homework table: unsupported version %q", file.Version).
			WithDetail("supported", version.Homework)
	}

	m := make(map[int]Instruction, len(file.Sessions))
	for n, text := range file.Sessions {
		if n < 1 {
			return nil, errors.Newf(errors.CodeConfig, "homework table: session number %d must be positive", n)
		}
		if text == nil {
			m[n] = None()
		} else {
			m[n] = Text(*text)
		}
	}
	return NewTable(m), nil
}

// LoadTableFile reads a table from a YAML file
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "open homework table").WithDetail("path", path)
	}
	defer f.Close()

	t, err := LoadTable(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "load homework table").WithDetail("path", path)
	}
	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultYAML))
})

// DefaultTable returns the built-in table for the 28-session course
func DefaultTable() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(fmt.Sprintf("embedded homework table: %v", err))
	}
	return t
}
