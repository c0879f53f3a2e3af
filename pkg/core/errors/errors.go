// ============================================================================
// sessionkit - Lesson data tooling
// ============================================================================
//
// Package:     errors
// Description: Coded errors shared by the extraction pipeline and the CLI
// Author:      Mike Stoffels
// Created:     2026-02-09
// License:     MIT
// ============================================================================

package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error for callers that need to branch on the cause
type Code string

const (
	CodeUnknown        Code = "UNKNOWN"
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeAnchorNotFound Code = "ANCHOR_NOT_FOUND"
	CodeNotFound       Code = "NOT_FOUND"
	CodeIO             Code = "IO"
	CodeConfig         Code = "CONFIG"
	CodeRender         Code = "RENDER"
	CodeStore          Code = "STORE"
)

// Error is a structured error with a code, the failing operation and details
type Error struct {
	Code    Code
	Message string
	Op      string
	Cause   error
	Details map[string]interface{}
}

// New creates a new Error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause with a code and message. A nil cause yields nil.
func Wrap(cause error, code Code, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithOp records the operation that failed
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetail attaches a key/value pair to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// CodeOf returns the code of the outermost *Error in err's chain
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	if err == nil {
		return ""
	}
	return CodeUnknown
}

// HasCode reports whether any *Error in err's chain carries code
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Is, As and Join re-export the standard helpers so callers need one import
var (
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)
