// File: scanner.go
// Title: Lexical Scanner for JS/TS Object Literals
// Description: Single-pass state machine that classifies every byte of a
//              buffer as code, string content or comment. All delimiter
//              recognition in sessionkit goes through Classify so braces
//              and brackets inside strings or comments are never counted.
// Author: msto63
// Version: v0.2.0
// Created: 2026-02-10
// Modified: 2026-03-02
//
// Change History:
// - 2026-02-10 v0.1.0: Initial scanner
// - 2026-03-02 v0.2.0: Report unterminated strings and block comments

package scan

import (
	"fmt"
)

// Mode is the coarse classification of a scanner position
type Mode uint8

const (
	Normal Mode = iota
	InString
	InLineComment
	InBlockComment
)

// String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case InString:
		return "string"
	case InLineComment:
		return "line comment"
	case InBlockComment:
		return "block comment"
	default:
		return "unknown"
	}
}

// State is the scanner's instantaneous classification.
// Delim and Escape are only meaningful while Mode == InString.
type State struct {
	Mode   Mode
	Delim  byte
	Escape bool
}

// IsCode reports whether the state is outside strings and comments
func (s State) IsCode() bool {
	return s.Mode == Normal
}

// Classify consumes the unit starting at buf[pos] under state st and
// returns the state after it plus the number of bytes consumed (1 or 2).
// It never modifies buf. At or past the end of buf it consumes nothing.
func Classify(buf []byte, pos int, st State) (State, int) {
	if pos < 0 || pos >= len(buf) {
		return st, 0
	}
	ch := buf[pos]

	switch st.Mode {
	case InLineComment:
		if ch == '\n' {
			return State{}, 1
		}
		return st, 1

	case InBlockComment:
		if ch == '*' && pos+1 < len(buf) && buf[pos+1] == '/' {
			return State{}, 2
		}
		return st, 1

	case InString:
		if st.Escape {
			// The escaped byte is literal, whatever it is
			st.Escape = false
			return st, 1
		}
		if ch == '\\' {
			st.Escape = true
			return st, 1
		}
		if ch == st.Delim {
			return State{}, 1
		}
		return st, 1
	}

	if ch == '/' && pos+1 < len(buf) {
		switch buf[pos+1] {
		case '/':
			return State{Mode: InLineComment}, 2
		case '*':
			return State{Mode: InBlockComment}, 2
		}
	}

	switch ch {
	case '\'', '"', '`':
		return State{Mode: InString, Delim: ch}, 1
	}

	return st, 1
}

// UnterminatedError reports a string or block comment still open at end of buffer
type UnterminatedError struct {
	Mode  Mode
	Delim byte
	Start int // offset of the opening quote or "/*"
}

func (e *UnterminatedError) Error() string {
	if e.Mode == InString {
		return fmt.Sprintf("unterminated string (%c) starting at offset %d", e.Delim, e.Start)
	}
	return fmt.Sprintf("unterminated %s starting at offset %d", e.Mode, e.Start)
}

// Is makes errors.Is(err, ErrUnterminated) match any UnterminatedError
func (e *UnterminatedError) Is(target error) bool {
	return target == ErrUnterminated
}

// Scanner walks a buffer unit by unit, keeping the Classify state
type Scanner struct {
	buf   []byte
	pos   int
	state State

	// regionStart is where the current non-normal region began
	regionStart int
}

// NewScanner creates a scanner positioned at pos in Normal state
func NewScanner(buf []byte, pos int) *Scanner {
	if pos < 0 {
		pos = 0
	}
	return &Scanner{buf: buf, pos: pos}
}

// Next consumes one unit. It returns the offset of the unit, whether that
// offset holds a code byte (a byte outside strings and comments that did not
// open one) and false once the buffer is exhausted.
func (s *Scanner) Next() (pos int, code bool, ok bool) {
	if s.pos >= len(s.buf) {
		return s.pos, false, false
	}

	before := s.state
	after, n := Classify(s.buf, s.pos, before)

	pos = s.pos
	code = before.Mode == Normal && after.Mode == Normal
	if before.Mode == Normal && after.Mode != Normal {
		s.regionStart = pos
	}

	s.state = after
	s.pos += n
	return pos, code, true
}

// Pos returns the offset of the next unit
func (s *Scanner) Pos() int {
	return s.pos
}

// State returns the current state
func (s *Scanner) State() State {
	return s.state
}

// Err reports an unterminated string or block comment once the scanner has
// reached the end of the buffer. A line comment running to the end of the
// buffer is not an error.
func (s *Scanner) Err() error {
	if s.pos < len(s.buf) {
		return nil
	}
	switch s.state.Mode {
	case InString, InBlockComment:
		return &UnterminatedError{Mode: s.state.Mode, Delim: s.state.Delim, Start: s.regionStart}
	}
	return nil
}

// CodeMask returns, for every byte of buf, whether it is a code byte.
// Useful for tests and debugging output.
func CodeMask(buf []byte) []bool {
	mask := make([]bool, len(buf))
	sc := NewScanner(buf, 0)
	for {
		pos, code, ok := sc.Next()
		if !ok {
			break
		}
		mask[pos] = code
	}
	return mask
}
