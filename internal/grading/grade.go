package grading

import "strings"

// IsCorrect compares a recorded answer against the correct set.
//
// Rules:
// - Unanswered is never correct
// - Text is correct when its trimmed value is a member of correct
// - Choices is correct when the trimmed keys equal correct exactly
// - Comparison is case-sensitive and there is no partial credit
func IsCorrect(a Answer, correct Set) bool {
	switch a.kind {
	case KindText:
		return correct.Has(strings.TrimSpace(a.text))
	case KindChoices:
		trimmed := make(Set, len(a.choices))
		for k := range a.choices {
			trimmed[strings.TrimSpace(k)] = struct{}{}
		}
		return trimmed.Equal(correct)
	}
	return false
}

// Score counts the answers that are correct against the matching entry in
// keys. Extra entries in either slice are ignored.
func Score(answers []Answer, keys []Set) int {
	n := min(len(answers), len(keys))
	score := 0
	for i := 0; i < n; i++ {
		if IsCorrect(answers[i], keys[i]) {
			score++
		}
	}
	return score
}
