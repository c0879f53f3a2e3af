// File: lexer.go
// Title: Literal Lexer
// Description: Converts a span of source bytes into literal tokens. String
//              and comment boundaries come from scan.Classify so the lexer
//              and the span extractor always agree on what is code.
// Author: msto63
// Version: v0.1.1
// Created: 2026-02-12
// Modified: 2026-03-02
//
// Change History:
// - 2026-02-12 v0.1.0: Initial lexer
// - 2026-03-02 v0.1.1: Track line and column for error messages

package literal

import (
	"strings"

	"github.com/msto63/sessionkit/internal/scan"
)

// Lexer performs lexical analysis of a source span
type Lexer struct {
	buf    []byte // source, cut at the end of the span
	pos    int    // next byte to read
	line   int
	column int
	lineAt int // offset up to which line/column are current
}

// NewLexer creates a lexer for the bytes of span inside buf. Token
// positions are offsets into buf.
func NewLexer(buf []byte, span scan.Span) *Lexer {
	if !span.Valid(len(buf)) {
		span = scan.Span{}
		buf = nil
	}
	l := &Lexer{buf: buf[:span.End], pos: span.Start, line: 1, column: 1}
	// line numbers count from the start of buf, not of the span
	l.sync(span.Start)
	return l
}

// NextToken returns the next token. After the end of the span it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() Token {
	if illegal, ok := l.skipSpaceAndComments(); !ok {
		return illegal
	}

	if l.pos >= len(l.buf) {
		return l.token(TokenEOF, "", l.pos, l.pos)
	}

	start := l.pos
	ch := l.buf[start]

	switch ch {
	case '{':
		return l.single(TokenLeftBrace)
	case '}':
		return l.single(TokenRightBrace)
	case '[':
		return l.single(TokenLeftBracket)
	case ']':
		return l.single(TokenRightBracket)
	case '(':
		return l.single(TokenLeftParen)
	case ')':
		return l.single(TokenRightParen)
	case ':':
		return l.single(TokenColon)
	case ',':
		return l.single(TokenComma)
	case ';':
		return l.single(TokenSemicolon)
	case '\'', '"', '`':
		return l.readString()
	}

	switch {
	case isDigit(ch):
		for l.pos < len(l.buf) && isDigit(l.buf[l.pos]) {
			l.pos++
		}
		return l.token(TokenNumber, string(l.buf[start:l.pos]), start, l.pos)
	case scan.IsIdentByte(ch):
		for l.pos < len(l.buf) && scan.IsIdentByte(l.buf[l.pos]) {
			l.pos++
		}
		return l.token(TokenIdentifier, string(l.buf[start:l.pos]), start, l.pos)
	}

	return l.single(TokenOther)
}

// Tokenize returns all tokens up to and including EOF. It stops at the
// first illegal token and returns it as the last element with an error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		switch tok.Type {
		case TokenEOF:
			return tokens, nil
		case TokenIllegal:
			return tokens, newSyntaxError(tok, tok.Value)
		}
	}
}

// skipSpaceAndComments advances past whitespace and comments. It returns an
// illegal token and false for a block comment that never closes.
func (l *Lexer) skipSpaceAndComments() (Token, bool) {
	for l.pos < len(l.buf) {
		ch := l.buf[l.pos]
		if isSpace(ch) {
			l.pos++
			continue
		}
		if ch != '/' || l.pos+1 >= len(l.buf) || (l.buf[l.pos+1] != '/' && l.buf[l.pos+1] != '*') {
			return Token{}, true
		}

		start := l.pos
		st, n := scan.Classify(l.buf, l.pos, scan.State{})
		l.pos += n
		for st.Mode != scan.Normal && l.pos < len(l.buf) {
			st, n = scan.Classify(l.buf, l.pos, st)
			l.pos += n
		}
		if st.Mode == scan.InBlockComment {
			return l.token(TokenIllegal, "unterminated block comment", start, l.pos), false
		}
	}
	return Token{}, true
}

// readString reads a quoted string starting at the current quote and
// decodes its escapes
func (l *Lexer) readString() Token {
	start := l.pos
	quote := l.buf[start]
	st := scan.State{Mode: scan.InString, Delim: quote}

	var sb strings.Builder
	pos := start + 1
	for pos < len(l.buf) {
		ch := l.buf[pos]
		next, n := scan.Classify(l.buf, pos, st)
		switch {
		case st.Escape:
			sb.WriteString(unescape(ch))
		case next.Mode == scan.Normal:
			l.pos = pos + n
			tok := l.token(TokenString, sb.String(), start, l.pos)
			tok.Quote = quote
			return tok
		case next.Escape:
			// the backslash itself is dropped
		default:
			sb.WriteByte(ch)
		}
		st = next
		pos += n
	}

	l.pos = len(l.buf)
	return l.token(TokenIllegal, "unterminated string", start, l.pos)
}

func (l *Lexer) single(tt TokenType) Token {
	start := l.pos
	l.pos++
	return l.token(tt, string(l.buf[start:l.pos]), start, l.pos)
}

func (l *Lexer) token(tt TokenType, value string, start, end int) Token {
	l.sync(start)
	return Token{
		Type:     tt,
		Value:    value,
		Position: start,
		End:      end,
		Line:     l.line,
		Column:   l.column,
	}
}

// sync brings line and column up to date for offset off. Offsets only grow.
func (l *Lexer) sync(off int) {
	for ; l.lineAt < off && l.lineAt < len(l.buf); l.lineAt++ {
		if l.buf[l.lineAt] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
}

func unescape(ch byte) string {
	switch ch {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	default:
		return string([]byte{ch})
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Tokenize is a convenience wrapper that tokenizes a whole buffer
func Tokenize(src []byte) ([]Token, error) {
	return NewLexer(src, scan.Span{Start: 0, End: len(src)}).Tokenize()
}
