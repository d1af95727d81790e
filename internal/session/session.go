package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/grading"
	"github.com/abhisek/quizrun/internal/question"
)

var (
	// ErrNotActive is returned by operations that need a running test.
	ErrNotActive = errors.New("no active test")

	// ErrIndexOutOfRange is returned when an answer slot index is invalid.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrNoNext is returned by Advance on the last question.
	ErrNoNext = errors.New("already at the last question")

	// ErrNoPrevious is returned by Retreat on the first question.
	ErrNoPrevious = errors.New("already at the first question")

	// ErrInvalidTimeLimit is returned by Start for a non-positive limit.
	ErrInvalidTimeLimit = errors.New("time limit must be at least one second")
)

// CountError reports a requested question count outside 1..BankSize.
type CountError struct {
	Requested int
	BankSize  int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("requested %d questions, bank holds %d (need 1..%d)", e.Requested, e.BankSize, e.BankSize)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock used for timing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSeed makes question sampling deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.perm = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Perm
	}
}

// WithIDGenerator overrides how test IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// Controller owns the single TestSession and drives its transitions:
// Configuring -> Active -> Completed, and back to Configuring on Restart.
type Controller struct {
	session *TestSession
	now     func() time.Time
	perm    func(n int) []int
	newID   func() string
}

// NewController creates a Controller in the Configuring phase.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		now:   time.Now,
		perm:  rand.Perm,
		newID: func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns the current test, or nil while configuring.
func (c *Controller) Session() *TestSession {
	return c.session
}

// Phase returns the phase of the current test.
func (c *Controller) Phase() Phase {
	if c.session == nil {
		return PhaseConfiguring
	}
	return c.session.Phase
}

// Start samples n distinct records uniformly at random, parses them, and
// begins a new test. Any previous test is discarded.
//
// Questions whose Options cannot be parsed keep their slot; the failure is
// recorded in TestSession.ParseErrors for the shell to flag.
func (c *Controller) Start(records []bank.Record, n int, timeLimit time.Duration) (*TestSession, error) {
	if len(records) == 0 {
		return nil, bank.ErrEmptyBank
	}
	if n < 1 || n > len(records) {
		return nil, &CountError{Requested: n, BankSize: len(records)}
	}
	timeLimit = timeLimit.Truncate(time.Second)
	if timeLimit <= 0 {
		return nil, ErrInvalidTimeLimit
	}

	picks := c.perm(len(records))[:n]
	questions := make([]*question.Question, n)
	parseErrors := make(map[int]error)
	for i, idx := range picks {
		q, err := question.Parse(records[idx])
		if err != nil {
			parseErrors[i] = err
		}
		questions[i] = q
	}

	c.session = &TestSession{
		ID:          c.newID(),
		Questions:   questions,
		Answers:     make([]grading.Answer, n),
		ParseErrors: parseErrors,
		TimeLimit:   timeLimit,
		StartedAt:   c.now(),
		Phase:       PhaseActive,
	}
	return c.session, nil
}

// RecordAnswer overwrites the answer slot at index i.
func (c *Controller) RecordAnswer(i int, a grading.Answer) error {
	s, err := c.active()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.Answers) {
		return ErrIndexOutOfRange
	}
	s.Answers[i] = a
	return nil
}

// Advance moves to the next question.
func (c *Controller) Advance() error {
	s, err := c.active()
	if err != nil {
		return err
	}
	if s.Current >= len(s.Questions)-1 {
		return ErrNoNext
	}
	s.Current++
	return nil
}

// Retreat moves to the previous question.
func (c *Controller) Retreat() error {
	s, err := c.active()
	if err != nil {
		return err
	}
	if s.Current <= 0 {
		return ErrNoPrevious
	}
	s.Current--
	return nil
}

// Submit grades every slot, fixes the score and completes the test.
// It is valid from any question. Once completed it returns ErrNotActive and
// leaves the score untouched.
func (c *Controller) Submit() error {
	s, err := c.active()
	if err != nil {
		return err
	}
	c.complete(s, false)
	return nil
}

// Timeout completes the test as Submit does, marking it timed out.
// It is a no-op on a completed test.
func (c *Controller) Timeout() error {
	if c.session != nil && c.session.Phase == PhaseCompleted {
		return nil
	}
	s, err := c.active()
	if err != nil {
		return err
	}
	c.complete(s, true)
	return nil
}

// Remaining returns the time left, clamped at zero. It is derived from the
// wall clock on every call, counting whole elapsed seconds.
func (c *Controller) Remaining() time.Duration {
	s := c.session
	if s == nil {
		return 0
	}
	if s.Phase == PhaseCompleted {
		return max(0, s.TimeLimit-s.CompletedAt.Sub(s.StartedAt).Truncate(time.Second))
	}
	elapsed := c.now().Sub(s.StartedAt).Truncate(time.Second)
	return max(0, s.TimeLimit-elapsed)
}

// CheckTimeout times the test out when no time remains. It reports true only
// on the call that performed the timeout.
func (c *Controller) CheckTimeout() bool {
	if c.Phase() != PhaseActive || c.Remaining() > 0 {
		return false
	}
	return c.Timeout() == nil
}

// Restart discards the current test and returns to configuring.
func (c *Controller) Restart() {
	c.session = nil
}

func (c *Controller) active() (*TestSession, error) {
	if c.session == nil || c.session.Phase != PhaseActive {
		return nil, ErrNotActive
	}
	return c.session, nil
}

func (c *Controller) complete(s *TestSession, timedOut bool) {
	keys := make([]grading.Set, len(s.Questions))
	for i, q := range s.Questions {
		keys[i] = q.Correct
	}
	s.Score = grading.Score(s.Answers, keys)
	s.CompletedAt = c.now()
	s.TimedOut = timedOut
	s.Phase = PhaseCompleted
}
