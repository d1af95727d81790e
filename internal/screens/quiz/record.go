package quiz

import (
	"context"
	"log"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrun/internal/screens/review"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
)

// saveTimeout bounds how long recording a finished test may take.
const saveTimeout = 5 * time.Second

// attemptData converts a completed test into its stored form.
func attemptData(s *session.TestSession, bankName string) store.AttemptData {
	rows := session.BuildReview(s)
	answers := make([]store.AnswerData, len(rows))
	for i, r := range rows {
		answers[i] = store.AnswerData{
			Question:      r.Question,
			YourAnswer:    r.YourAnswer,
			CorrectAnswer: r.CorrectAnswer,
			AnswerLink:    r.AnswerLink,
			Correct:       r.Correct,
		}
	}
	return store.AttemptData{
		ID:          s.ID,
		Bank:        bankName,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		TimeLimit:   s.TimeLimit,
		Score:       s.Score,
		TimedOut:    s.TimedOut,
		Answers:     answers,
	}
}

// saveCmd records a completed test. Failures are logged only; they never
// change the result shown to the user.
func saveCmd(results store.ResultRepo, s *session.TestSession, bankName string) tea.Cmd {
	if results == nil || s == nil {
		return nil
	}
	data := attemptData(s, bankName)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		err := results.SaveAttempt(ctx, data)
		if err != nil {
			log.Printf("save attempt %s: %v", data.ID, err)
		}
		return review.AttemptSavedMsg{ID: data.ID, Err: err}
	}
}
