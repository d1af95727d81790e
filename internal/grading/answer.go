package grading

import (
	"sort"
	"strings"
)

// NotAnswered is the display marker for an empty slot.
const NotAnswered = "Not Answered"

// Set is an unordered collection of trimmed answer keys or values.
type Set map[string]struct{}

// NewSet builds a Set from items, trimming surrounding whitespace from each.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[strings.TrimSpace(it)] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of distinct elements.
func (s Set) Len() int {
	return len(s)
}

// Equal reports whether s and o hold exactly the same elements.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Sorted returns the elements in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String renders the set as a sorted, comma-separated list.
func (s Set) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// AnswerKind tags which variant an Answer holds.
type AnswerKind int

const (
	KindUnanswered AnswerKind = iota
	KindText                  // free text or a single choice key
	KindChoices               // a set of choice keys
)

// Answer is a recorded response: Unanswered, Text, or Choices.
// The zero value is Unanswered.
type Answer struct {
	kind    AnswerKind
	text    string
	choices Set
}

// Unanswered returns the empty-slot answer.
func Unanswered() Answer {
	return Answer{}
}

// Text returns a free-text or single-choice answer.
func Text(s string) Answer {
	return Answer{kind: KindText, text: s}
}

// Choices returns a multi-choice answer holding keys.
func Choices(keys ...string) Answer {
	c := make(Set, len(keys))
	for _, k := range keys {
		c[k] = struct{}{}
	}
	return Answer{kind: KindChoices, choices: c}
}

// Kind returns the variant tag.
func (a Answer) Kind() AnswerKind {
	return a.kind
}

// IsAnswered reports whether the slot holds a response.
func (a Answer) IsAnswered() bool {
	return a.kind != KindUnanswered
}

// TextValue returns the text of a Text answer.
func (a Answer) TextValue() (string, bool) {
	return a.text, a.kind == KindText
}

// ChoiceValues returns a copy of the keys of a Choices answer.
func (a Answer) ChoiceValues() (Set, bool) {
	if a.kind != KindChoices {
		return nil, false
	}
	c := make(Set, len(a.choices))
	for k := range a.choices {
		c[k] = struct{}{}
	}
	return c, true
}

// Equal reports whether a and b are the same variant with the same value.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindText:
		return a.text == b.text
	case KindChoices:
		return a.choices.Equal(b.choices)
	}
	return true
}

// Display renders an answer for the review table.
func Display(a Answer) string {
	switch a.kind {
	case KindText:
		return a.text
	case KindChoices:
		return a.choices.String()
	}
	return NotAnswered
}
