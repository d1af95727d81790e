package quiz

import (
	"log"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizrun/internal/grading"
	"github.com/abhisek/quizrun/internal/question"
	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screen"
	"github.com/abhisek/quizrun/internal/screens/review"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
	"github.com/abhisek/quizrun/internal/ui/components"
	"github.com/abhisek/quizrun/internal/ui/layout"
)

// QuizScreen serves the questions of the active test.
type QuizScreen struct {
	ctrl     *session.Controller
	results  store.ResultRepo
	bankName string

	input       components.TextInput
	choices     components.ChoiceList
	confirmQuit bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a QuizScreen for the controller's active test. results may
// be nil, in which case finished tests are not recorded.
func New(ctrl *session.Controller, results store.ResultRepo, bankName string) *QuizScreen {
	s := &QuizScreen{
		ctrl:     ctrl,
		results:  results,
		bankName: bankName,
	}
	s.loadQuestion()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(tickCmd(), s.focusCmd())
}

func (s *QuizScreen) Title() string {
	return "Test"
}

func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon test"},
			{Key: "N", Description: "Keep going"},
		}
	}

	var hints []layout.KeyHint
	switch q := s.question(); {
	case q == nil || s.unanswerable():
	case q.Kind == question.KindFreeText:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	default:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Select"},
		)
	}

	if t := s.ctrl.Session(); t != nil && t.IsLast() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Submit"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next"})
	}
	return append(hints,
		layout.KeyHint{Key: "Shift+Tab", Description: "Back"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input housekeeping.
	if q := s.question(); q != nil && q.Kind == question.KindFreeText {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.ctrl.Phase() != session.PhaseActive {
		return s, nil
	}
	if s.ctrl.CheckTimeout() {
		return s, s.finish()
	}
	return s, tickCmd()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.ctrl.Phase() != session.PhaseActive {
		return s, nil
	}
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.ctrl.Restart()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "tab":
		return s.next()
	case "shift+tab":
		return s.back()
	case "ctrl+s":
		if s.ctrl.Session().IsLast() {
			return s.submit()
		}
		return s, nil
	}

	q := s.question()
	if q == nil || s.unanswerable() {
		return s, nil
	}

	if q.Kind == question.KindFreeText {
		if key == "enter" {
			if s.ctrl.Session().IsLast() {
				return s.submit()
			}
			return s.next()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.record()
		return s, cmd
	}

	var changed bool
	s.choices, changed = s.choices.Update(msg)
	if changed {
		s.record()
	}
	return s, nil
}

func (s *QuizScreen) next() (screen.Screen, tea.Cmd) {
	if err := s.ctrl.Advance(); err != nil {
		return s, nil
	}
	s.loadQuestion()
	return s, s.focusCmd()
}

func (s *QuizScreen) back() (screen.Screen, tea.Cmd) {
	if err := s.ctrl.Retreat(); err != nil {
		return s, nil
	}
	s.loadQuestion()
	return s, s.focusCmd()
}

func (s *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	if err := s.ctrl.Submit(); err != nil {
		log.Printf("submit: %v", err)
		return s, nil
	}
	return s, s.finish()
}

// finish records the completed test and swaps in the review screen.
func (s *QuizScreen) finish() tea.Cmd {
	t := s.ctrl.Session()
	next := review.New(s.ctrl, s.results, t)
	return tea.Batch(
		saveCmd(s.results, t, s.bankName),
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

// record stores the widget state as the current question's answer.
func (s *QuizScreen) record() {
	t := s.ctrl.Session()
	q := s.question()
	if t == nil || q == nil {
		return
	}

	var a grading.Answer
	switch q.Kind {
	case question.KindFreeText:
		if v := s.input.Value(); strings.TrimSpace(v) != "" {
			a = grading.Text(v)
		}
	case question.KindSingleChoice:
		if sel := s.choices.Selected(); len(sel) == 1 {
			a = grading.Text(sel[0])
		}
	case question.KindMultiChoice:
		if sel := s.choices.Selected(); len(sel) > 0 {
			a = grading.Choices(sel...)
		}
	}

	if err := s.ctrl.RecordAnswer(t.Current, a); err != nil {
		log.Printf("record answer %d: %v", t.Current, err)
	}
}

// loadQuestion resets the input widgets for the current question and
// restores any answer recorded earlier.
func (s *QuizScreen) loadQuestion() {
	t := s.ctrl.Session()
	q := s.question()
	if q == nil {
		return
	}
	prev := t.Answer(t.Current)

	switch q.Kind {
	case question.KindFreeText:
		s.input = components.NewTextInput("Type your answer...", false, 0)
		if v, ok := prev.TextValue(); ok {
			s.input.SetValue(v)
		}
	default:
		choices := make([]components.Choice, len(q.Options))
		for i, o := range q.Options {
			choices[i] = components.Choice{Key: o.Key, Text: question.DisplayMarkup(o.Text)}
		}
		s.choices = components.NewChoiceList(choices, q.Kind == question.KindMultiChoice)
		s.choices.Disabled = s.unanswerable()
		if v, ok := prev.TextValue(); ok {
			s.choices.Select(v)
		}
		if set, ok := prev.ChoiceValues(); ok {
			s.choices.Select(set.Sorted()...)
		}
	}
}

func (s *QuizScreen) focusCmd() tea.Cmd {
	if q := s.question(); q != nil && q.Kind == question.KindFreeText {
		return s.input.Focus()
	}
	return nil
}

func (s *QuizScreen) question() *question.Question {
	t := s.ctrl.Session()
	if t == nil {
		return nil
	}
	return t.CurrentQuestion()
}

// unanswerable reports whether the current question failed to parse.
func (s *QuizScreen) unanswerable() bool {
	t := s.ctrl.Session()
	if t == nil {
		return false
	}
	return t.ParseErrors[t.Current] != nil
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
