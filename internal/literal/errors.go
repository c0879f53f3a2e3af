package literal

import (
	"errors"
	"fmt"
)

// ErrSyntax matches any *SyntaxError
var ErrSyntax = errors.New("literal syntax error")

// SyntaxError represents a malformed literal with position information
type SyntaxError struct {
	Message  string
	Position int
	Line     int
	Column   int
	Token    Token
}

func newSyntaxError(tok Token, msg string) *SyntaxError {
	return &SyntaxError{
		Message:  msg,
		Position: tok.Position,
		Line:     tok.Line,
		Column:   tok.Column,
		Token:    tok,
	}
}

func (e *SyntaxError) Error() string {
	near := e.Token.Value
	if e.Token.Type == TokenEOF {
		near = "EOF"
	}
	if len(near) > 24 {
		near = near[:24] + "..."
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s (near '%s')",
		e.Line, e.Column, e.Message, near)
}

// Is makes errors.Is(err, ErrSyntax) match
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
