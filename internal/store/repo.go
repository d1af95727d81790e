package store

import (
	"context"
	"time"
)

// QueryOpts configures attempt queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // started_at >= From
	To    time.Time // started_at <= To
}

// AnswerData is one graded question of a finished attempt.
type AnswerData struct {
	Question      string
	YourAnswer    string
	CorrectAnswer string
	AnswerLink    string
	Correct       bool
}

// AttemptData captures a finished test for persistence.
type AttemptData struct {
	ID          string
	Bank        string
	StartedAt   time.Time
	CompletedAt time.Time
	TimeLimit   time.Duration
	Score       int
	TimedOut    bool
	Answers     []AnswerData
}

// AttemptRecord is a stored attempt without its answers.
type AttemptRecord struct {
	ID            string
	Bank          string
	StartedAt     time.Time
	CompletedAt   time.Time
	TimeLimit     time.Duration
	QuestionCount int
	Score         int
	TimedOut      bool
}

// Duration returns how long the attempt took.
func (a AttemptRecord) Duration() time.Duration {
	return a.CompletedAt.Sub(a.StartedAt)
}

// AnswerRecord is a stored per-question answer.
type AnswerRecord struct {
	AttemptID string
	Position  int
	AnswerData
}

// ResultRepo persists completed attempts.
type ResultRepo interface {
	// SaveAttempt stores an attempt and its answers atomically.
	SaveAttempt(ctx context.Context, data AttemptData) error

	// ListAttempts returns attempts, newest first.
	ListAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// AttemptAnswers returns the answers of one attempt in question order.
	AttemptAnswers(ctx context.Context, attemptID string) ([]AnswerRecord, error)

	// Clear deletes every attempt and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
}
