package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizrun/internal/bank"
)

// ErrNoValidOptions is returned when an Options cell is present but none of
// its segments has the "key: text" form.
var ErrNoValidOptions = errors.New("no valid options for this question")

const (
	optionSeparator = " | "
	keySeparator    = ": "
)

// emptyOptionMarkers are Options cell values that mean "no options".
var emptyOptionMarkers = map[string]bool{
	`""`:   true,
	`""""`: true,
}

// RowError ties a parse failure to its bank source row.
type RowError struct {
	Source string
	Row    int
	Err    error
}

func (e *RowError) Error() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s row %d: %v", e.Source, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Parse converts a raw bank record into a Question.
//
// A malformed Correct_Answers cell is soft: the question gets an empty
// correct set and a warning. An Options cell without any valid "key: text"
// pair is hard: Parse still returns the question (so a session can keep its
// slot) together with an error wrapping ErrNoValidOptions.
func Parse(rec bank.Record) (*Question, error) {
	q := &Question{
		Text:       rec.Question,
		Images:     ParseImages(rec.Images),
		RawCorrect: rec.CorrectAnswers,
		AnswerLink: rec.AnswerLink,
	}

	correct, err := ParseCorrectAnswers(rec.CorrectAnswers)
	if err != nil {
		q.Warnings = append(q.Warnings, err.Error())
	}
	q.Correct = correct

	options, hasOptions, err := ParseOptions(rec.Options)
	q.Options = options
	q.Kind = deriveKind(hasOptions, len(options), correct.Len())
	if err != nil {
		return q, &RowError{Source: rec.Source, Row: rec.Row, Err: err}
	}
	return q, nil
}

// deriveKind applies the kind invariant: free text iff there is no usable
// options cell, multi choice iff options exist and more than one answer is
// correct, single choice otherwise.
func deriveKind(hasOptions bool, numOptions, numCorrect int) Kind {
	switch {
	case !hasOptions:
		return KindFreeText
	case numOptions > 0 && numCorrect > 1:
		return KindMultiChoice
	default:
		return KindSingleChoice
	}
}

// ParseImages splits a comma-separated Images cell into trimmed URLs.
func ParseImages(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseOptions parses an Options cell of the form "A: text | B: text".
//
// hasOptions is false when the cell is blank or one of the empty-quote
// markers; the question is then free text. Segments without ": " are
// dropped. If nothing survives, ErrNoValidOptions is returned. When a key
// repeats, the later text wins and the key keeps its first position.
func ParseOptions(s string) (options []Option, hasOptions bool, err error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || emptyOptionMarkers[trimmed] {
		return nil, false, nil
	}

	index := make(map[string]int)
	for _, segment := range strings.Split(s, optionSeparator) {
		key, text, ok := strings.Cut(segment, keySeparator)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		text = strings.TrimSpace(text)
		if i, dup := index[key]; dup {
			options[i].Text = text
			continue
		}
		index[key] = len(options)
		options = append(options, Option{Key: key, Text: text})
	}

	if len(options) == 0 {
		return nil, true, ErrNoValidOptions
	}
	return options, true, nil
}
