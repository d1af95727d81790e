package configure

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/config"
	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screens/history"
	"github.com/abhisek/quizrun/internal/screens/quiz"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
)

// mockResultRepo implements store.ResultRepo for testing.
type mockResultRepo struct{}

func (m *mockResultRepo) SaveAttempt(_ context.Context, _ store.AttemptData) error { return nil }
func (m *mockResultRepo) ListAttempts(_ context.Context, _ store.QueryOpts) ([]store.AttemptRecord, error) {
	return nil, nil
}
func (m *mockResultRepo) AttemptAnswers(_ context.Context, _ string) ([]store.AnswerRecord, error) {
	return nil, nil
}
func (m *mockResultRepo) Clear(_ context.Context) (int64, error) { return 0, nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBank(n int) *bank.Bank {
	b := &bank.Bank{Files: []string{"datas/a.csv"}}
	for i := range n {
		b.Records = append(b.Records, bank.Record{
			Question:       fmt.Sprintf("Q%d", i),
			CorrectAnswers: "x",
		})
	}
	return b
}

func newScreen(b *bank.Bank, results store.ResultRepo) (*ConfigureScreen, *session.Controller) {
	ctrl := session.NewController(session.WithSeed(1))
	return New(b, "datas", ctrl, results, config.Defaults()), ctrl
}

func TestConfigureScreen_Defaults(t *testing.T) {
	s, _ := newScreen(testBank(3), nil)

	if s.Title() != "Setup" {
		t.Errorf("Title = %q, want Setup", s.Title())
	}
	if s.count.Value() != "3" {
		t.Errorf("count = %q, want 3 (capped at bank size)", s.count.Value())
	}
	if s.minutes.Value() != "10" {
		t.Errorf("minutes = %q, want 10", s.minutes.Value())
	}

	s, _ = newScreen(testBank(20), nil)
	if s.count.Value() != "5" {
		t.Errorf("count = %q, want 5", s.count.Value())
	}
	if !strings.Contains(s.View(100, 30), "20 questions from 1 file") {
		t.Error("expected bank summary in view")
	}
}

func TestConfigureScreen_FocusCycle(t *testing.T) {
	s, _ := newScreen(testBank(3), nil)

	if s.focus != focusCount {
		t.Fatalf("focus = %d, want count", s.focus)
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != focusMinutes {
		t.Errorf("focus = %d, want minutes", s.focus)
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != focusStart || !s.start.Focused {
		t.Errorf("focus = %d, want start", s.focus)
	}
	s.Update(specialKey(tea.KeyTab))
	if s.focus != focusCount {
		t.Errorf("focus = %d, want wrap to count", s.focus)
	}
	s.Update(specialKey(tea.KeyUp))
	if s.focus != focusStart {
		t.Errorf("focus = %d, want wrap back to start", s.focus)
	}
}

func TestConfigureScreen_StartPushesQuiz(t *testing.T) {
	s, ctrl := newScreen(testBank(3), nil)

	// Focus the button and press it.
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}

	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*quiz.QuizScreen); !ok {
		t.Errorf("pushed %T, want quiz screen", msg.Screen)
	}
	if ctrl.Phase() != session.PhaseActive {
		t.Errorf("Phase = %v, want active", ctrl.Phase())
	}
	if got := ctrl.Session().Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}
	if got := ctrl.Session().TimeLimit.Minutes(); got != 10 {
		t.Errorf("TimeLimit = %v minutes, want 10", got)
	}
}

func TestConfigureScreen_EnterInFieldStarts(t *testing.T) {
	s, ctrl := newScreen(testBank(3), nil)

	s.count.SetValue("2")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if ctrl.Session().Len() != 2 {
		t.Errorf("Len = %d, want 2", ctrl.Session().Len())
	}
}

func TestConfigureScreen_Validation(t *testing.T) {
	tests := []struct {
		name      string
		count     string
		minutes   string
		wantErr   string
		wantFocus int
	}{
		{"zero count", "0", "10", "between 1 and 3", focusCount},
		{"count above bank", "4", "10", "between 1 and 3", focusCount},
		{"empty count", "", "10", "between 1 and 3", focusCount},
		{"zero minutes", "2", "0", "between 1 and 180 minutes", focusMinutes},
		{"minutes above max", "2", "181", "between 1 and 180 minutes", focusMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ctrl := newScreen(testBank(3), nil)
			s.count.SetValue(tt.count)
			s.minutes.SetValue(tt.minutes)

			s.startTest()
			if !strings.Contains(s.errMsg, tt.wantErr) {
				t.Errorf("errMsg = %q, want %q", s.errMsg, tt.wantErr)
			}
			if s.focus != tt.wantFocus {
				t.Errorf("focus = %d, want %d", s.focus, tt.wantFocus)
			}
			if ctrl.Phase() != session.PhaseConfiguring {
				t.Errorf("Phase = %v, want configuring", ctrl.Phase())
			}
			if !strings.Contains(s.View(100, 30), tt.wantErr) {
				t.Error("expected error in view")
			}
		})
	}
}

func TestConfigureScreen_TypingClearsError(t *testing.T) {
	s, _ := newScreen(testBank(3), nil)
	s.count.SetValue("9")
	s.startTest()
	if s.errMsg == "" {
		t.Fatal("expected an error")
	}

	s.Update(keyPress('1'))
	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want cleared", s.errMsg)
	}
}

func TestConfigureScreen_EmptyBank(t *testing.T) {
	b := &bank.Bank{Warnings: []string{"datas: no CSV files found"}}
	s, ctrl := newScreen(b, nil)

	if !s.start.Disabled {
		t.Error("start should be disabled for an empty bank")
	}
	s.startTest()
	if ctrl.Phase() != session.PhaseConfiguring {
		t.Error("empty bank must not start a test")
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "No questions found in datas.") {
		t.Error("expected empty bank message")
	}
	if !strings.Contains(view, "no CSV files found") {
		t.Error("expected load warning in view")
	}
}

func TestConfigureScreen_WarningsCapped(t *testing.T) {
	b := testBank(2)
	for i := range 6 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("warning %d", i))
	}
	s, _ := newScreen(b, nil)

	view := s.View(100, 40)
	if strings.Contains(view, "warning 4") {
		t.Error("expected warnings past the cap to be hidden")
	}
	if !strings.Contains(view, "and 2 more") {
		t.Error("expected overflow count")
	}
}

func TestConfigureScreen_History(t *testing.T) {
	s, _ := newScreen(testBank(3), nil)
	if _, cmd := s.Update(keyPress('h')); cmd != nil {
		t.Error("history should be unavailable without a results store")
	}

	s, _ = newScreen(testBank(3), &mockResultRepo{})
	_, cmd := s.Update(keyPress('h'))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T, want history screen", msg.Screen)
	}
}

func TestRenderBanner(t *testing.T) {
	if got := RenderBanner(40); !strings.Contains(got, "Q U I Z R U N") {
		t.Errorf("narrow banner = %q, want compact form", got)
	}
	if got := RenderBanner(100); !strings.Contains(got, "██████╗") {
		t.Error("wide banner should render the block art")
	}

	s, _ := newScreen(testBank(3), nil)
	if strings.Contains(s.View(100, 20), "██████╗") {
		t.Error("banner should be skipped on short screens")
	}
	if !strings.Contains(s.View(100, 40), "██████╗") {
		t.Error("banner should show on tall screens")
	}
}
