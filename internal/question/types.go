package question

import "github.com/abhisek/quizrun/internal/grading"

// Kind is the answer-input modality of a question.
type Kind int

const (
	KindFreeText     Kind = iota // typed answer, no options
	KindSingleChoice             // pick one option
	KindMultiChoice              // pick every correct option
)

func (k Kind) String() string {
	switch k {
	case KindSingleChoice:
		return "single_choice"
	case KindMultiChoice:
		return "multi_choice"
	default:
		return "free_text"
	}
}

// Option is one labelled choice of a choice question.
type Option struct {
	Key  string
	Text string
}

// Question is a parsed bank record ready for display and grading.
type Question struct {
	// Text is the raw prompt. Pass it through DisplayMarkup before rendering.
	Text string

	// Images holds image URLs in source order. Empty when none were given.
	Images []string

	// Kind is derived from Options and Correct, never read from input.
	Kind Kind

	// Options lists choices in source order. Empty for free-text questions.
	Options []Option

	// Correct is the trimmed set of correct answers or option keys.
	Correct grading.Set

	// RawCorrect is the Correct_Answers cell as it appeared in the bank.
	RawCorrect string

	// AnswerLink is a free-form reference shown in the review.
	AnswerLink string

	// Warnings collects soft parse problems (for example a malformed
	// Correct_Answers literal). The question stays usable.
	Warnings []string
}

// OptionText returns the text for an option key.
func (q *Question) OptionText(key string) (string, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o.Text, true
		}
	}
	return "", false
}

// OptionKeys returns the option keys in display order.
func (q *Question) OptionKeys() []string {
	keys := make([]string, len(q.Options))
	for i, o := range q.Options {
		keys[i] = o.Key
	}
	return keys
}

// Gradable reports whether any answer could ever be marked correct.
func (q *Question) Gradable() bool {
	return q.Correct.Len() > 0
}
