package scan

// ExtractSpan returns the span between the delimiter at openPos and its
// matching close, excluding both delimiters. Only code bytes are counted, so
// delimiters inside strings and comments are ignored. It reports false when
// buf[openPos] is not open or when the buffer ends before the depth returns
// to zero, which is the normal outcome for an absent or truncated field.
func ExtractSpan(buf []byte, openPos int, open, close byte) (Span, bool) {
	if openPos < 0 || openPos >= len(buf) || buf[openPos] != open {
		return Span{}, false
	}

	sc := NewScanner(buf, openPos+1)
	depth := 1
	for {
		pos, code, ok := sc.Next()
		if !ok {
			return Span{}, false
		}
		if !code {
			continue
		}
		switch buf[pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return Span{Start: openPos + 1, End: pos}, true
			}
		}
	}
}

// ExtractBraces is ExtractSpan for a '{' ... '}' pair
func ExtractBraces(buf []byte, openPos int) (Span, bool) {
	return ExtractSpan(buf, openPos, '{', '}')
}

// ExtractBrackets is ExtractSpan for a '[' ... ']' pair
func ExtractBrackets(buf []byte, openPos int) (Span, bool) {
	return ExtractSpan(buf, openPos, '[', ']')
}
