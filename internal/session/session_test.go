package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/grading"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time            { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func testRecords(n int) []bank.Record {
	records := make([]bank.Record, n)
	for i := range records {
		records[i] = bank.Record{
			Question:       fmt.Sprintf("Question %d", i),
			Options:        "A: yes | B: no",
			CorrectAnswers: "['A']",
			AnswerLink:     fmt.Sprintf("https://example.com/%d", i),
			Source:         "test.csv",
			Row:            i + 1,
		}
	}
	return records
}

func testController() (*Controller, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	c := NewController(
		WithClock(clock.Now),
		WithSeed(1),
		WithIDGenerator(func() string { return "test-session-id" }),
	)
	return c, clock
}

func startTest(t *testing.T, c *Controller, n int, limit time.Duration) *TestSession {
	t.Helper()
	s, err := c.Start(testRecords(10), n, limit)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStart_InitialState(t *testing.T) {
	c, clock := testController()
	s := startTest(t, c, 3, time.Minute)

	if s.Phase != PhaseActive {
		t.Errorf("Phase = %v, want active", s.Phase)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	if s.Current != 0 {
		t.Errorf("Current = %d, want 0", s.Current)
	}
	if !s.StartedAt.Equal(clock.Now()) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, clock.Now())
	}
	if s.ID != "test-session-id" {
		t.Errorf("ID = %q", s.ID)
	}
	for i, a := range s.Answers {
		if a.IsAnswered() {
			t.Errorf("slot %d should start unanswered", i)
		}
	}
}

func TestStart_SamplesDistinctQuestions(t *testing.T) {
	c := NewController()
	for run := 0; run < 50; run++ {
		s, err := c.Start(testRecords(10), 3, time.Minute)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		seen := make(map[string]bool)
		for _, q := range s.Questions {
			if seen[q.Text] {
				t.Fatalf("run %d: duplicate question %q", run, q.Text)
			}
			seen[q.Text] = true
		}
		if len(seen) != 3 {
			t.Fatalf("run %d: got %d questions, want 3", run, len(seen))
		}
	}
}

func TestStart_WholeBank(t *testing.T) {
	c, _ := testController()
	s, err := c.Start(testRecords(4), 4, time.Minute)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestStart_Validation(t *testing.T) {
	c, _ := testController()

	if _, err := c.Start(nil, 1, time.Minute); !errors.Is(err, bank.ErrEmptyBank) {
		t.Errorf("empty bank: err = %v, want ErrEmptyBank", err)
	}

	for _, n := range []int{0, -1, 11} {
		_, err := c.Start(testRecords(10), n, time.Minute)
		var countErr *CountError
		if !errors.As(err, &countErr) {
			t.Errorf("n=%d: err = %v, want *CountError", n, err)
			continue
		}
		if countErr.BankSize != 10 {
			t.Errorf("n=%d: BankSize = %d, want 10", n, countErr.BankSize)
		}
	}

	if _, err := c.Start(testRecords(10), 1, 500*time.Millisecond); !errors.Is(err, ErrInvalidTimeLimit) {
		t.Errorf("sub-second limit: err = %v, want ErrInvalidTimeLimit", err)
	}

	if c.Phase() != PhaseConfiguring {
		t.Errorf("failed starts should leave the controller configuring, got %v", c.Phase())
	}
}

func TestStart_ResetsWholesale(t *testing.T) {
	c, _ := testController()
	first := startTest(t, c, 3, time.Minute)
	_ = c.RecordAnswer(0, grading.Text("A"))
	_ = c.Advance()

	second := startTest(t, c, 2, time.Minute)
	if first == second {
		t.Fatal("expected a fresh session")
	}
	if second.Current != 0 || second.Answered() != 0 || second.Len() != 2 {
		t.Errorf("restart state: current=%d answered=%d len=%d", second.Current, second.Answered(), second.Len())
	}
}

func TestStart_KeepsUnanswerableQuestions(t *testing.T) {
	c, _ := testController()
	records := testRecords(2)
	records[0].Options = "no pairs here"
	records[1].Options = "no pairs either"

	s, err := c.Start(records, 2, time.Minute)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(s.ParseErrors) != 2 {
		t.Errorf("ParseErrors = %d, want 2", len(s.ParseErrors))
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestRecordAnswer(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 3, time.Minute)

	if err := c.RecordAnswer(1, grading.Text("B")); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := c.RecordAnswer(1, grading.Text("B")); err != nil {
		t.Fatalf("RecordAnswer (repeat): %v", err)
	}
	if !s.Answer(1).Equal(grading.Text("B")) {
		t.Errorf("slot 1 = %q, want B", grading.Display(s.Answer(1)))
	}

	// Overwrite when revisiting.
	if err := c.RecordAnswer(1, grading.Choices("A", "B")); err != nil {
		t.Fatalf("RecordAnswer (overwrite): %v", err)
	}
	if !s.Answer(1).Equal(grading.Choices("A", "B")) {
		t.Errorf("slot 1 = %q, want A, B", grading.Display(s.Answer(1)))
	}

	for _, i := range []int{-1, 3} {
		if err := c.RecordAnswer(i, grading.Text("A")); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RecordAnswer(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestNavigation(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 3, time.Minute)

	if err := c.Retreat(); !errors.Is(err, ErrNoPrevious) {
		t.Errorf("Retreat at 0: err = %v, want ErrNoPrevious", err)
	}

	for want := 1; want <= 2; want++ {
		if err := c.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if s.Current != want {
			t.Errorf("Current = %d, want %d", s.Current, want)
		}
	}
	if !s.IsLast() {
		t.Error("expected to be on the last question")
	}
	if err := c.Advance(); !errors.Is(err, ErrNoNext) {
		t.Errorf("Advance at last: err = %v, want ErrNoNext", err)
	}

	if err := c.Retreat(); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if s.Current != 1 {
		t.Errorf("Current = %d, want 1", s.Current)
	}
}

func TestOperationsRequireActive(t *testing.T) {
	c, _ := testController()

	checks := map[string]error{
		"RecordAnswer": c.RecordAnswer(0, grading.Text("A")),
		"Advance":      c.Advance(),
		"Retreat":      c.Retreat(),
		"Submit":       c.Submit(),
		"Timeout":      c.Timeout(),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNotActive) {
			t.Errorf("%s while configuring: err = %v, want ErrNotActive", name, err)
		}
	}
}

func TestSubmit_Scores(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 3, time.Minute)

	_ = c.RecordAnswer(0, grading.Text("A"))
	_ = c.RecordAnswer(1, grading.Text(" A "))
	_ = c.RecordAnswer(2, grading.Text("B"))

	if err := c.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.Phase != PhaseCompleted {
		t.Errorf("Phase = %v, want completed", s.Phase)
	}

	want := 0
	for i, q := range s.Questions {
		if grading.IsCorrect(s.Answers[i], q.Correct) {
			want++
		}
	}
	if s.Score != want || s.Score != 2 {
		t.Errorf("Score = %d, want %d (and 2)", s.Score, want)
	}
	if s.TimedOut {
		t.Error("manual submit should not be marked timed out")
	}
}

func TestSubmit_FromAnyPosition(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 3, time.Minute)
	_ = c.RecordAnswer(0, grading.Text("A"))

	if err := c.Submit(); err != nil {
		t.Fatalf("Submit from first question: %v", err)
	}
	if s.Score != 1 {
		t.Errorf("Score = %d, want 1", s.Score)
	}
}

func TestSubmit_TwiceKeepsScore(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 2, time.Minute)
	_ = c.RecordAnswer(0, grading.Text("A"))
	_ = c.Submit()

	// Mutations after completion are rejected.
	if err := c.RecordAnswer(1, grading.Text("A")); !errors.Is(err, ErrNotActive) {
		t.Errorf("RecordAnswer after submit: err = %v, want ErrNotActive", err)
	}
	if err := c.Submit(); !errors.Is(err, ErrNotActive) {
		t.Errorf("second Submit: err = %v, want ErrNotActive", err)
	}
	if s.Score != 1 {
		t.Errorf("Score = %d, want 1", s.Score)
	}
}

func TestRemaining(t *testing.T) {
	c, clock := testController()
	startTest(t, c, 1, 60*time.Second)

	if got := c.Remaining(); got != 60*time.Second {
		t.Errorf("Remaining at start = %v, want 60s", got)
	}

	clock.Advance(10*time.Second + 700*time.Millisecond)
	if got := c.Remaining(); got != 50*time.Second {
		t.Errorf("Remaining after 10.7s = %v, want 50s (whole seconds)", got)
	}

	clock.Advance(time.Hour)
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining past the limit = %v, want 0", got)
	}
}

func TestCheckTimeout_FiresOnce(t *testing.T) {
	c, clock := testController()
	s := startTest(t, c, 2, 60*time.Second)
	_ = c.RecordAnswer(0, grading.Text("A"))

	clock.Advance(59 * time.Second)
	if c.CheckTimeout() {
		t.Fatal("timeout fired early")
	}

	clock.Advance(2 * time.Second) // elapsed = 61s
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %v, want 0", c.Remaining())
	}
	if !c.CheckTimeout() {
		t.Fatal("expected timeout to fire")
	}
	if s.Phase != PhaseCompleted || !s.TimedOut {
		t.Errorf("after timeout: phase=%v timedOut=%v", s.Phase, s.TimedOut)
	}
	if s.Score != 1 {
		t.Errorf("Score = %d, want 1", s.Score)
	}

	clock.Advance(time.Second)
	if c.CheckTimeout() {
		t.Error("timeout fired twice")
	}
}

func TestTimeout_NoopWhenCompleted(t *testing.T) {
	c, _ := testController()
	s := startTest(t, c, 1, time.Minute)
	_ = c.Submit()

	if err := c.Timeout(); err != nil {
		t.Errorf("Timeout after submit: %v", err)
	}
	if s.TimedOut {
		t.Error("Timeout after submit must not mark the test timed out")
	}
}

func TestRestart(t *testing.T) {
	c, _ := testController()
	startTest(t, c, 1, time.Minute)
	_ = c.Submit()

	c.Restart()
	if c.Session() != nil {
		t.Error("expected session to be discarded")
	}
	if c.Phase() != PhaseConfiguring {
		t.Errorf("Phase = %v, want configuring", c.Phase())
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining without session = %v, want 0", c.Remaining())
	}
}

func TestDeterministicSeed(t *testing.T) {
	a, _ := testController()
	b, _ := testController()
	sa := startTest(t, a, 5, time.Minute)
	sb := startTest(t, b, 5, time.Minute)
	for i := range sa.Questions {
		if sa.Questions[i].Text != sb.Questions[i].Text {
			t.Fatalf("same seed produced different samples at %d", i)
		}
	}
}
