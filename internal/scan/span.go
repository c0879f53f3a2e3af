package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminated matches any *UnterminatedError
	ErrUnterminated = errors.New("unterminated string or comment")

	// ErrAnchorNotFound matches any *AnchorError
	ErrAnchorNotFound = errors.New("anchor not found")
)

// Span is a half-open [Start, End) byte range into a source buffer.
// It owns no data.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether 0 <= Start <= End <= n
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

// Contains reports whether off lies inside the span
func (s Span) Contains(off int) bool {
	return off >= s.Start && off < s.End
}

// Text returns the bytes covered by the span. An invalid span yields nil.
func (s Span) Text(buf []byte) []byte {
	if !s.Valid(len(buf)) {
		return nil
	}
	return buf[s.Start:s.End]
}

// String returns the span in [start,end) notation
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
