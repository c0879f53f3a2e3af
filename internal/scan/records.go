package scan

import "iter"

// RecordIter yields the span of every top-level object inside a container
// literal. For an array container those are the objects at brace depth 1
// relative to the array. For an object container (a map keyed by session
// number) they are the property values at brace depth 1 inside its body.
//
// Spans include the braces. The sequence ends at the container's closing
// delimiter or at end of buffer; unbalanced input only shortens it.
type RecordIter struct {
	buf       []byte
	sc        *Scanner
	container byte

	braces   int
	brackets int
	start    int

	span   Span
	resume int
	done   bool
	closed bool
	end    int
}

// Records starts iterating the container whose opening '[' or '{' is at open
func Records(buf []byte, open int) *RecordIter {
	return ResumeAt(buf, open, open+1)
}

// ResumeAt restarts iteration of the container at open from offset, which
// must be a value previously returned by Offset for the same container.
func ResumeAt(buf []byte, open, offset int) *RecordIter {
	it := &RecordIter{buf: buf}
	if open < 0 || open >= len(buf) || (buf[open] != '[' && buf[open] != '{') || offset <= open {
		it.done = true
		return it
	}
	it.container = buf[open]
	it.sc = NewScanner(buf, offset)
	it.resume = offset
	return it
}

// Next advances to the next record and reports whether there is one
func (it *RecordIter) Next() bool {
	if it.done {
		return false
	}

	for {
		pos, code, ok := it.sc.Next()
		if !ok {
			it.done = true
			return false
		}
		if !code {
			continue
		}

		switch it.buf[pos] {
		case '{':
			if it.braces == 0 {
				it.start = pos
			}
			it.braces++

		case '}':
			if it.braces == 0 {
				if it.container == '{' {
					it.done, it.closed, it.end = true, true, pos+1
					return false
				}
				// stray closer between array elements
				continue
			}
			it.braces--
			if it.braces == 0 {
				it.span = Span{Start: it.start, End: pos + 1}
				it.resume = pos + 1
				return true
			}

		case '[':
			if it.braces == 0 && it.container == '[' {
				it.brackets++
			}

		case ']':
			if it.braces == 0 && it.container == '[' {
				if it.brackets == 0 {
					it.done, it.closed, it.end = true, true, pos+1
					return false
				}
				it.brackets--
			}
		}
	}
}

// Span returns the current record, braces included
func (it *RecordIter) Span() Span {
	return it.span
}

// Offset returns the position just after the last emitted record, usable
// with ResumeAt
func (it *RecordIter) Offset() int {
	return it.resume
}

// Closed reports whether iteration stopped at the container's closing delimiter
func (it *RecordIter) Closed() bool {
	return it.closed
}

// End returns the offset just past the container's closing delimiter, or
// -1 while it has not been reached
func (it *RecordIter) End() int {
	if !it.closed {
		return -1
	}
	return it.end
}

// Err returns an unterminated string or comment that ran to end of buffer
func (it *RecordIter) Err() error {
	if it.sc == nil || !it.done || it.closed {
		return nil
	}
	return it.sc.Err()
}

// All returns the remaining records as a range-over-func sequence
func (it *RecordIter) All() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for it.Next() {
			if !yield(it.Span()) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice
func (it *RecordIter) Collect() []Span {
	var spans []Span
	for span := range it.All() {
		spans = append(spans, span)
	}
	return spans
}
