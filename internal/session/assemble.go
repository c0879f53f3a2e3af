package session

import (
	"fmt"

	"github.com/msto63/sessionkit/internal/extract"
	"github.com/msto63/sessionkit/internal/literal"
)

// Field names of a session record
const (
	FieldNumber     = "sessionNumber"
	FieldTitle      = "title"
	FieldSubtitle   = "subtitle"
	FieldDate       = "date"
	FieldBlock      = "blockNumber"
	FieldBlockTitle = "blockTitle"
	FieldObjectives = "objectives"
	FieldGrammar    = "grammarContent"
	FieldVocabulary = "vocabularyContent"
	FieldResources  = "resources"
	FieldHomework   = "homeworkInstructions"
)

// Assemble builds a Session from a parsed record. A record without
// sessionNumber is dropped silently; one whose sessionNumber is present but
// not an unsigned integer is dropped with a warning. Every other field is
// optional.
func Assemble(obj *literal.Object) (Session, []Warning, bool) {
	num := extract.IntField(obj, FieldNumber)
	switch num.State {
	case extract.Absent:
		return Session{}, nil, false
	case extract.Malformed:
		return Session{}, []Warning{{
			Message: fmt.Sprintf("%s is not an unsigned integer: %s", FieldNumber, num.Source),
		}}, false
	}

	s := Session{
		Number:     num.Value,
		Title:      DefaultTitle(num.Value),
		Objectives: []string{},
		Resources:  []Resource{},
		Span:       obj.Span(),
	}

	if title, ok := extract.String(obj, FieldTitle); ok {
		s.Title = title
	}
	if subtitle, ok := extract.String(obj, FieldSubtitle); ok {
		s.Subtitle = &subtitle
	}
	if d, ok := extract.Date(obj, FieldDate); ok {
		date := NewDate(d)
		s.Date = &date
	}
	if n, ok := extract.Int(obj, FieldBlock); ok {
		s.Block = &Block{Number: n}
		s.Block.Title, _ = extract.String(obj, FieldBlockTitle)
	}
	if list, ok := extract.List(obj, FieldObjectives); ok {
		if texts := extract.FieldStrings(list, "text"); texts != nil {
			s.Objectives = texts
		}
	}
	if g, ok := extract.Object(obj, FieldGrammar); ok {
		s.Grammar = &Grammar{Title: optString(g, "title"), Rules: []string{}}
		if rules, ok := extract.List(g, "rules"); ok {
			if items := extract.Strings(rules); items != nil {
				s.Grammar.Rules = items
			}
		}
	}
	if v, ok := extract.Object(obj, FieldVocabulary); ok {
		s.Vocabulary = &Vocabulary{Title: optString(v, "title"), Terms: []string{}}
		if items, ok := extract.List(v, "items"); ok {
			if terms := extract.FieldStrings(items, "term"); terms != nil {
				s.Vocabulary.Terms = terms
			}
		}
	}
	if list, ok := extract.List(obj, FieldResources); ok {
		if res := extract.Resources(list); res != nil {
			s.Resources = res
		}
	}
	if hw, ok := extract.String(obj, FieldHomework); ok {
		s.Homework = &hw
	}

	return s, nil, true
}

func optString(obj *literal.Object, name string) *string {
	if s, ok := extract.String(obj, name); ok {
		return &s
	}
	return nil
}
