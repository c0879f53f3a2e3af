// File: token.go
// Title: Literal Tokens
// Description: Token types produced by the literal lexer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-02-12
// Modified: 2026-02-12
//
// Change History:
// - 2026-02-12 v0.1.0: Initial token set

package literal

import "fmt"

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Identifiers and literals
	TokenIdentifier // sessionNumber, new, Date
	TokenString     // 'text', "text", `text`
	TokenNumber     // 42

	// Delimiters
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenColon        // :
	TokenComma        // ,
	TokenSemicolon    // ;

	// Any other byte: operators, dots, minus signs
	TokenOther
)

// Token represents a lexical token with position information.
// For strings Value holds the decoded content and Quote the delimiter.
type Token struct {
	Type     TokenType
	Value    string
	Quote    byte
	Position int // Byte offset of the first byte in the source buffer
	End      int // Byte offset just past the token
	Line     int // 1-based
	Column   int // 1-based, in bytes
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%s)", t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type.String(), t.Value)
	}
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenLeftBrace:
		return "LEFT_BRACE"
	case TokenRightBrace:
		return "RIGHT_BRACE"
	case TokenLeftBracket:
		return "LEFT_BRACKET"
	case TokenRightBracket:
		return "RIGHT_BRACKET"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	case TokenColon:
		return "COLON"
	case TokenComma:
		return "COMMA"
	case TokenSemicolon:
		return "SEMICOLON"
	case TokenOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// isOpener reports whether the token opens a nesting level
func (tt TokenType) isOpener() bool {
	return tt == TokenLeftBrace || tt == TokenLeftBracket || tt == TokenLeftParen
}

// closerFor returns the closing type that matches an opener
func closerFor(tt TokenType) TokenType {
	switch tt {
	case TokenLeftBrace:
		return TokenRightBrace
	case TokenLeftBracket:
		return TokenRightBracket
	case TokenLeftParen:
		return TokenRightParen
	}
	return TokenIllegal
}
