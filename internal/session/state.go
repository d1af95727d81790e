package session

import (
	"time"

	"github.com/abhisek/quizrun/internal/grading"
	"github.com/abhisek/quizrun/internal/question"
)

// Phase represents the current phase of a test.
type Phase int

const (
	PhaseConfiguring Phase = iota // No test running; waiting for Start
	PhaseActive                   // Serving questions, timer running
	PhaseCompleted                // Submitted or timed out; score is final
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return "configuring"
	}
}

// TestSession is one configured, in-progress or completed test attempt.
type TestSession struct {
	// ID is the UUID for this attempt.
	ID string

	// Questions is the sampled subset, fixed at Start.
	Questions []*question.Question

	// Current is the index of the question on screen.
	Current int

	// Answers holds one slot per question. Unanswered is the default.
	Answers []grading.Answer

	// ParseErrors records questions that cannot be answered (for example an
	// Options cell with no valid pairs), keyed by index.
	ParseErrors map[int]error

	// TimeLimit is the total allowed duration in whole seconds.
	TimeLimit time.Duration

	// StartedAt is when the test began.
	StartedAt time.Time

	// CompletedAt is when the test was submitted or timed out.
	CompletedAt time.Time

	// Phase is the current phase.
	Phase Phase

	// Score is the number of correct answers. Only meaningful once completed.
	Score int

	// TimedOut is set when completion came from the countdown.
	TimedOut bool
}

// Len returns the number of questions in the test.
func (s *TestSession) Len() int {
	return len(s.Questions)
}

// CurrentQuestion returns the question at Current.
func (s *TestSession) CurrentQuestion() *question.Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.Current]
}

// Answer returns the recorded answer for index i (Unanswered if out of range).
func (s *TestSession) Answer(i int) grading.Answer {
	if i < 0 || i >= len(s.Answers) {
		return grading.Unanswered()
	}
	return s.Answers[i]
}

// IsLast reports whether Current is the final question.
func (s *TestSession) IsLast() bool {
	return s.Current == len(s.Questions)-1
}

// Answered counts the slots holding a response.
func (s *TestSession) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsAnswered() {
			n++
		}
	}
	return n
}

// Elapsed returns the time spent on the test, capped at TimeLimit once
// completed by timeout.
func (s *TestSession) Elapsed(now time.Time) time.Duration {
	end := now
	if s.Phase == PhaseCompleted {
		end = s.CompletedAt
	}
	d := end.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	if d > s.TimeLimit {
		return s.TimeLimit
	}
	return d
}
