package session

import (
	"time"

	"github.com/abhisek/quizrun/internal/grading"
	"github.com/abhisek/quizrun/internal/question"
)

// ReviewRow is one line of the completion report.
type ReviewRow struct {
	Index         int
	Question      string
	YourAnswer    string
	CorrectAnswer string
	AnswerLink    string
	Correct       bool
}

// BuildReview builds the per-question report for a test. It has no effect
// on grading.
func BuildReview(s *TestSession) []ReviewRow {
	if s == nil {
		return nil
	}
	rows := make([]ReviewRow, len(s.Questions))
	for i, q := range s.Questions {
		a := s.Answer(i)
		rows[i] = ReviewRow{
			Index:         i,
			Question:      question.DisplayMarkup(q.Text),
			YourAnswer:    grading.Display(a),
			CorrectAnswer: correctDisplay(q),
			AnswerLink:    q.AnswerLink,
			Correct:       grading.IsCorrect(a, q.Correct),
		}
	}
	return rows
}

// correctDisplay renders the correct set, falling back to the raw cell when
// it could not be parsed.
func correctDisplay(q *question.Question) string {
	if q.Correct.Len() == 0 {
		return q.RawCorrect
	}
	return q.Correct.String()
}

// Summary holds the data displayed on the review screen header.
type Summary struct {
	Score     int
	Total     int
	Answered  int
	Percent   float64
	Duration  time.Duration
	TimedOut  bool
	StartedAt time.Time
}

// BuildSummary creates a Summary from a completed test.
func BuildSummary(s *TestSession) *Summary {
	if s == nil {
		return &Summary{}
	}
	var pct float64
	if len(s.Questions) > 0 {
		pct = float64(s.Score) / float64(len(s.Questions))
	}
	return &Summary{
		Score:     s.Score,
		Total:     len(s.Questions),
		Answered:  s.Answered(),
		Percent:   pct,
		Duration:  s.Elapsed(s.CompletedAt),
		TimedOut:  s.TimedOut,
		StartedAt: s.StartedAt,
	}
}
