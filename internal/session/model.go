// File: model.go
// Title: Session Data Model
// Description: Typed lesson records built from the object literals of a
//              sessions data file. Values never alias the source buffer.
// Author: msto63
// Version: v0.2.0
// Created: 2026-02-13
// Modified: 2026-03-05
//
// Change History:
// - 2026-02-13 v0.1.0: Initial model
// - 2026-03-05 v0.2.0: Homework instructions and source spans

package session

import (
	"fmt"
	"time"

	"github.com/msto63/sessionkit/internal/extract"
	"github.com/msto63/sessionkit/internal/scan"
)

// Resource is a downloadable handout referenced by a session
type Resource = extract.Resource

// Session is one lesson of the course
type Session struct {
	Number     int         `json:"sessionNumber"`
	Title      string      `json:"title"`
	Subtitle   *string     `json:"subtitle,omitempty"`
	Date       *Date       `json:"date,omitempty"`
	Block      *Block      `json:"block,omitempty"`
	Objectives []string    `json:"objectives"`
	Grammar    *Grammar    `json:"grammar,omitempty"`
	Vocabulary *Vocabulary `json:"vocabulary,omitempty"`
	Resources  []Resource  `json:"resources"`
	Homework   *string     `json:"homeworkInstructions,omitempty"`

	// Span is where the record lives in the source buffer, braces included
	Span scan.Span `json:"-"`
}

// Block groups consecutive sessions under a numbered theme
type Block struct {
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
}

// Grammar is the grammar summary of a session
type Grammar struct {
	Title *string  `json:"title,omitempty"`
	Rules []string `json:"rules"`
}

// Vocabulary is the vocabulary selection of a session
type Vocabulary struct {
	Title *string  `json:"title,omitempty"`
	Terms []string `json:"terms"`
}

// DefaultTitle is used for sessions without a title field
func DefaultTitle(number int) string {
	return fmt.Sprintf("Sesión %d", number)
}

// Date is a calendar date without time of day
type Date struct {
	time.Time
}

// NewDate wraps t, dropping the time of day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(extract.DateLayout)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(extract.DateLayout, string(text))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date as a YYYY-MM-DD string. It overrides the
// RFC 3339 encoding promoted from time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", s)
	}
	return d.UnmarshalText([]byte(s[1 : len(s)-1]))
}

// Warning reports a record that was skipped for a reason worth surfacing
type Warning struct {
	Record  int       `json:"record"` // index in container order
	Line    int       `json:"line"`
	Message string    `json:"message"`
	Span    scan.Span `json:"-"`
	Err     error     `json:"-"`
}

// String returns a one-line description
func (w Warning) String() string {
	return fmt.Sprintf("record %d (line %d): %s", w.Record, w.Line, w.Message)
}
