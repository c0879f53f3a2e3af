// File: reader.go
// Title: Literal Reader
// Description: Recursive-descent reader for object and array literals.
//              Unsupported expressions become Raw values; only broken
//              structure (unterminated strings, unbalanced closers) is an
//              error.
// Author: msto63
// Version: v0.2.1
// Created: 2026-02-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-02-12 v0.1.0: Initial reader
// - 2026-03-04 v0.2.0: Object bodies without braces, array elisions
// - 2026-10-16 v0.2.1: Keep spread, computed and method properties as Raw fields

package literal

import (
	"strconv"

	"github.com/msto63/sessionkit/internal/scan"
)

// Reader implements recursive descent over a token slice
type Reader struct {
	buf    []byte
	tokens []Token
	i      int
}

// Parse reads the object literal in span of buf. When the span starts with
// '{' the object is read up to its closing brace and anything after it is
// ignored. Otherwise the span is read as an object body, stopping at the
// end of the span or at an unmatched '}'.
func Parse(buf []byte, span scan.Span) (*Object, error) {
	tokens, err := NewLexer(buf, span).Tokenize()
	if err != nil {
		return nil, err
	}

	r := &Reader{buf: buf, tokens: tokens}
	if r.cur().Type == TokenLeftBrace {
		return r.parseObject()
	}

	obj := &Object{}
	start := r.cur().Position
	if err := r.parseFields(obj, false); err != nil {
		return nil, err
	}
	obj.span = scan.Span{Start: start, End: r.prevEnd(start)}
	return obj, nil
}

// ParseObject reads a whole buffer with Parse
func ParseObject(src []byte) (*Object, error) {
	return Parse(src, scan.Span{Start: 0, End: len(src)})
}

func (r *Reader) cur() Token {
	if r.i >= len(r.tokens) {
		return r.tokens[len(r.tokens)-1]
	}
	return r.tokens[r.i]
}

func (r *Reader) peek(n int) Token {
	if r.i+n >= len(r.tokens) {
		return r.tokens[len(r.tokens)-1]
	}
	return r.tokens[r.i+n]
}

func (r *Reader) advance() {
	if r.i < len(r.tokens)-1 {
		r.i++
	}
}

// prevEnd returns the end of the last consumed token, or def if none
func (r *Reader) prevEnd(def int) int {
	if r.i == 0 {
		return def
	}
	return r.tokens[r.i-1].End
}

func (r *Reader) errorf(msg string) error {
	return newSyntaxError(r.cur(), msg)
}

// parseObject parses {key: value, ...}
func (r *Reader) parseObject() (*Object, error) {
	open := r.cur()
	r.advance() // consume '{'

	obj := &Object{}
	if err := r.parseFields(obj, true); err != nil {
		return nil, err
	}

	closing := r.cur()
	r.advance() // consume '}'
	obj.span = scan.Span{Start: open.Position, End: closing.End}
	return obj, nil
}

// parseFields reads fields until '}' or EOF. With braced set, EOF is an
// error; the closing brace is left as the current token.
func (r *Reader) parseFields(obj *Object, braced bool) error {
	for {
		tok := r.cur()
		switch tok.Type {
		case TokenRightBrace:
			return nil
		case TokenEOF:
			if braced {
				return r.errorf("expected '}' after object fields")
			}
			return nil
		}

		field, err := r.parseField()
		if err != nil {
			return err
		}

		switch r.cur().Type {
		case TokenComma:
			field.Comma = r.cur().Position
			r.advance()
		case TokenRightBrace, TokenEOF:
		default:
			return r.errorf("expected ',' or '}' after object field")
		}
		obj.Fields = append(obj.Fields, field)
	}
}

// parseField parses key: value, or a shorthand key. Spread entries,
// computed keys and methods are kept as a keyless Raw field.
func (r *Reader) parseField() (Field, error) {
	key := r.cur()
	switch key.Type {
	case TokenIdentifier, TokenString, TokenNumber:
	case TokenColon, TokenComma:
		return Field{}, r.errorf("expected object key")
	default:
		return r.parseRawField()
	}
	r.advance()

	field := Field{
		Key:     key.Value,
		KeySpan: scan.Span{Start: key.Position, End: key.End},
		Comma:   -1,
	}

	switch r.cur().Type {
	case TokenComma, TokenRightBrace, TokenEOF:
		// shorthand property {name}
		field.Value = Raw{node: node{span: field.KeySpan}, Text: key.Value}
		field.Span = field.KeySpan
		return field, nil
	case TokenColon:
		r.advance() // consume ':'
	default:
		r.i--
		return r.parseRawField()
	}

	value, end, err := r.parseValue()
	if err != nil {
		return Field{}, err
	}
	field.Value = value
	field.Span = scan.Span{Start: key.Position, End: end}
	return field, nil
}

// parseRawField skips one property the reader does not model, such as
// ...base, [k]: v or fmt() {...}, up to the next ',' at depth zero.
func (r *Reader) parseRawField() (Field, error) {
	start := r.i
	if err := r.skipRaw(); err != nil {
		return Field{}, err
	}
	if r.i == start {
		return Field{}, r.errorf("expected object key")
	}

	first := r.tokens[start].Position
	span := scan.Span{Start: first, End: r.prevEnd(first)}
	return Field{
		KeySpan: scan.Span{Start: first, End: first},
		Value:   Raw{node: node{span: span}, Text: string(r.buf[span.Start:span.End])},
		Span:    span,
		Comma:   -1,
	}, nil
}

// parseArray parses [elem, elem, ...]
func (r *Reader) parseArray() (*Array, error) {
	open := r.cur()
	r.advance() // consume '['

	arr := &Array{}
	for {
		switch r.cur().Type {
		case TokenRightBracket:
			closing := r.cur()
			r.advance()
			arr.span = scan.Span{Start: open.Position, End: closing.End}
			return arr, nil
		case TokenComma:
			r.advance() // elision
			continue
		case TokenEOF:
			return nil, r.errorf("expected ']' after array elements")
		}

		elem, _, err := r.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, elem)

		switch r.cur().Type {
		case TokenComma:
			r.advance()
		case TokenRightBracket:
		default:
			return nil, r.errorf("expected ',' or ']' after array element")
		}
	}
}

// parseValue reads one value and any trailing tokens up to the next ',' or
// closer at the same depth. It returns the value and the end offset of the
// last token consumed.
func (r *Reader) parseValue() (Value, int, error) {
	start := r.i
	value, err := r.parsePrimary()
	if err != nil {
		return nil, 0, err
	}

	if value != nil && r.atValueEnd() {
		return value, r.prevEnd(0), nil
	}

	// "as const", "+ 'suffix'", identifiers, calls ...
	if err := r.skipRaw(); err != nil {
		return nil, 0, err
	}
	if r.i == start {
		return nil, 0, r.errorf("expected value")
	}
	end := r.prevEnd(0)

	switch value.(type) {
	case *Object, *Array:
		return value, end, nil
	}
	first := r.tokens[start].Position
	return Raw{node: node{span: scan.Span{Start: first, End: end}}, Text: string(r.buf[first:end])}, end, nil
}

// parsePrimary reads a supported value. It returns nil without consuming
// anything when the current token does not start one.
func (r *Reader) parsePrimary() (Value, error) {
	tok := r.cur()
	switch tok.Type {
	case TokenLeftBrace:
		return r.parseObject()
	case TokenLeftBracket:
		return r.parseArray()
	case TokenString:
		r.advance()
		return String{node: node{span: tokSpan(tok)}, Text: tok.Value, Quote: tok.Quote}, nil
	case TokenNumber:
		n, err := strconv.Atoi(tok.Value)
		if err != nil {
			return nil, nil
		}
		r.advance()
		return Number{node: node{span: tokSpan(tok)}, Int: n, Text: tok.Value}, nil
	case TokenIdentifier:
		if tok.Value == "new" {
			return r.parseDateCall(), nil
		}
	}
	return nil, nil
}

// parseDateCall matches new Date('...') exactly, consuming nothing otherwise
func (r *Reader) parseDateCall() Value {
	name, lparen, arg, rparen := r.peek(1), r.peek(2), r.peek(3), r.peek(4)
	if name.Type != TokenIdentifier || name.Value != "Date" ||
		lparen.Type != TokenLeftParen ||
		arg.Type != TokenString || rparen.Type != TokenRightParen {
		return nil
	}

	start := r.cur().Position
	for n := 0; n < 5; n++ {
		r.advance()
	}
	return DateCall{node: node{span: scan.Span{Start: start, End: rparen.End}}, Arg: arg.Value, Quote: arg.Quote}
}

func (r *Reader) atValueEnd() bool {
	switch r.cur().Type {
	case TokenComma, TokenRightBrace, TokenRightBracket, TokenEOF:
		return true
	}
	return false
}

// skipRaw consumes tokens until ',' or a closer at depth zero, checking
// that nested delimiters match
func (r *Reader) skipRaw() error {
	var stack []TokenType
	for {
		tok := r.cur()
		switch {
		case tok.Type == TokenEOF:
			if len(stack) > 0 {
				return r.errorf("unbalanced delimiters in expression")
			}
			return nil
		case tok.Type.isOpener():
			stack = append(stack, closerFor(tok.Type))
		case tok.Type == TokenRightBrace || tok.Type == TokenRightBracket || tok.Type == TokenRightParen:
			if len(stack) == 0 {
				if tok.Type == TokenRightParen {
					return r.errorf("unexpected ')'")
				}
				return nil
			}
			if stack[len(stack)-1] != tok.Type {
				return r.errorf("mismatched closing delimiter")
			}
			stack = stack[:len(stack)-1]
		case tok.Type == TokenComma:
			if len(stack) == 0 {
				return nil
			}
		}
		r.advance()
	}
}

func tokSpan(tok Token) scan.Span {
	return scan.Span{Start: tok.Position, End: tok.End}
}
