package scan

import (
	"bytes"
	"fmt"
)

// AnchorError reports that the container literal could not be located
type AnchorError struct {
	Name   string
	Reason string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("anchor %q not found: %s", e.Name, e.Reason)
}

// Is makes errors.Is(err, ErrAnchorNotFound) match any AnchorError
func (e *AnchorError) Is(target error) bool {
	return target == ErrAnchorNotFound
}

// FindContainer locates the literal assigned to name: the first code
// occurrence of name as an identifier, then the first '=' after it, then the
// first '[' or '{' after the '='. Brackets in a type annotation such as
// `SessionData[]` therefore never match. It returns the offset of the opening
// delimiter.
func FindContainer(buf []byte, name string) (int, error) {
	at := FindIdent(buf, Span{Start: 0, End: len(buf)}, name)
	if at < 0 {
		return -1, &AnchorError{Name: name, Reason: "name does not appear in code"}
	}

	// depth counts open type-argument brackets, so the '>' closing
	// Record<number, SessionData>= is not read as part of ">="
	depth, closed := 0, -1
	eq := IndexCode(buf, at+len(name), func(pos int) bool {
		switch buf[pos] {
		case '<':
			depth++
			return false
		case '>':
			if depth > 0 && (pos == 0 || buf[pos-1] != '=') {
				depth--
				if depth == 0 {
					closed = pos
				}
			}
			return false
		case '=':
		default:
			return false
		}
		// skip "==" and "=>"
		if pos+1 < len(buf) && (buf[pos+1] == '=' || buf[pos+1] == '>') {
			return false
		}
		if pos > 0 && buf[pos-1] == '>' && closed == pos-1 {
			return true
		}
		return pos == 0 || (buf[pos-1] != '=' && buf[pos-1] != '!' && buf[pos-1] != '<' && buf[pos-1] != '>')
	})
	if eq < 0 {
		return -1, &AnchorError{Name: name, Reason: "no assignment after name"}
	}

	open := IndexCode(buf, eq+1, func(pos int) bool {
		return buf[pos] == '[' || buf[pos] == '{'
	})
	if open < 0 {
		return -1, &AnchorError{Name: name, Reason: "no array or object literal after assignment"}
	}
	return open, nil
}

// IndexCode returns the first code offset >= from for which match is true,
// or -1
func IndexCode(buf []byte, from int, match func(pos int) bool) int {
	sc := NewScanner(buf, from)
	for {
		pos, code, ok := sc.Next()
		if !ok {
			return -1
		}
		if code && match(pos) {
			return pos
		}
	}
}

// FindIdent returns the offset of the first code occurrence of name inside
// span that is not part of a longer identifier, or -1
func FindIdent(buf []byte, span Span, name string) int {
	if name == "" || !span.Valid(len(buf)) {
		return -1
	}
	needle := []byte(name)

	sc := NewScanner(buf, span.Start)
	for {
		pos, code, ok := sc.Next()
		if !ok || pos+len(needle) > span.End {
			return -1
		}
		if !code || buf[pos] != needle[0] {
			continue
		}
		if !bytes.HasPrefix(buf[pos:], needle) {
			continue
		}
		if pos > 0 && IsIdentByte(buf[pos-1]) {
			continue
		}
		if end := pos + len(needle); end < len(buf) && IsIdentByte(buf[end]) {
			continue
		}
		return pos
	}
}

// IsIdentByte reports whether b can continue a JS identifier. Bytes of
// multi-byte UTF-8 sequences count as identifier bytes.
func IsIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b >= 0x80
}
