package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"message only", New(CodeInvalidInput, "bad input"), "bad input"},
		{"with op", New(CodeIO, "read failed").WithOp("load"), "load: read failed"},
		{
			"with details sorted",
			New(CodeAnchorNotFound, "anchor not found").WithDetail("name", "sessionsData").WithDetail("at", 0),
			"anchor not found (at=0, name=sessionsData)",
		},
		{"with cause", Wrap(io.EOF, CodeIO, "read"), "read: EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrap_NilCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeIO, "nothing"))
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeRender, "pdf failed"))
	assert.Equal(t, CodeRender, CodeOf(err))
	assert.Equal(t, CodeUnknown, CodeOf(io.EOF))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestHasCode(t *testing.T) {
	inner := New(CodeAnchorNotFound, "missing")
	err := fmt.Errorf("extract: %w", Wrap(inner, CodeInvalidInput, "bad file"))

	assert.True(t, HasCode(err, CodeAnchorNotFound))
	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.False(t, HasCode(err, CodeStore))
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeNotFound, "session 4"))

	assert.True(t, Is(err, &Error{Code: CodeNotFound}))
	assert.False(t, Is(err, &Error{Code: CodeIO}))
	assert.True(t, Is(Wrap(io.EOF, CodeIO, "read"), io.EOF))
}
