package configure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/config"
	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screen"
	"github.com/abhisek/quizrun/internal/screens/history"
	"github.com/abhisek/quizrun/internal/screens/quiz"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
	"github.com/abhisek/quizrun/internal/ui/components"
	"github.com/abhisek/quizrun/internal/ui/layout"
	"github.com/abhisek/quizrun/internal/ui/theme"
)

const (
	focusCount = iota
	focusMinutes
	focusStart
	numFields
)

// maxWarnings caps how many load warnings are listed.
const maxWarnings = 4

// ConfigureScreen collects the question count and time limit and starts
// a test.
type ConfigureScreen struct {
	bank       *bank.Bank
	bankName   string
	ctrl       *session.Controller
	results    store.ResultRepo
	maxMinutes int

	count   components.TextInput
	minutes components.TextInput
	start   components.Button
	focus   int
	errMsg  string
}

var _ screen.Screen = (*ConfigureScreen)(nil)
var _ screen.KeyHintProvider = (*ConfigureScreen)(nil)

// New creates a ConfigureScreen for the loaded bank. results may be nil
// when no results store is available.
func New(b *bank.Bank, bankName string, ctrl *session.Controller, results store.ResultRepo, cfg config.Config) *ConfigureScreen {
	s := &ConfigureScreen{
		bank:       b,
		bankName:   bankName,
		ctrl:       ctrl,
		results:    results,
		maxMinutes: cfg.MaxMinutes,
		count:      components.NewTextInput("count", true, 4),
		minutes:    components.NewTextInput("minutes", true, 4),
	}

	defaultCount := cfg.DefaultCount
	if size := b.Size(); size > 0 {
		defaultCount = min(defaultCount, size)
	}
	s.count.Label = fmt.Sprintf("Questions (1-%d)", b.Size())
	s.count.SetValue(strconv.Itoa(defaultCount))
	s.minutes.Label = fmt.Sprintf("Minutes   (1-%d)", cfg.MaxMinutes)
	s.minutes.SetValue(strconv.Itoa(cfg.DefaultMinutes))

	s.start = components.NewButton("Start test", s.startTest)
	s.start.Disabled = b.Empty()
	s.setFocus(focusCount)
	return s
}

func (s *ConfigureScreen) Init() tea.Cmd {
	return s.count.Init()
}

func (s *ConfigureScreen) Title() string {
	return "Setup"
}

func (s *ConfigureScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Start"},
	}
	if s.results != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *ConfigureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.forward(msg)
	}

	switch kmsg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "h", "H":
		if s.results != nil {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(s.results)}
			}
		}
		return s, nil
	case "enter":
		if s.focus == focusStart {
			// The button is a value; startTest mutates the screen directly.
			_, cmd := s.start.Update(msg)
			return s, cmd
		}
		// Enter in a field submits the form.
		return s, s.startTest()
	}

	return s, s.forward(msg)
}

func (s *ConfigureScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case focusCount:
		s.count, cmd = s.count.Update(msg)
	case focusMinutes:
		s.minutes, cmd = s.minutes.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		s.errMsg = ""
	}
	return cmd
}

func (s *ConfigureScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.count.Blur()
	s.minutes.Blur()
	s.start.Focused = i == focusStart
	switch i {
	case focusCount:
		return s.count.Focus()
	case focusMinutes:
		return s.minutes.Focus()
	}
	return nil
}

// startTest validates the form and starts a new test.
func (s *ConfigureScreen) startTest() tea.Cmd {
	if s.bank.Empty() {
		s.errMsg = fmt.Sprintf("No questions found in %s.", s.bankName)
		return nil
	}

	n, err := s.count.NumericValue()
	if err != nil || n < 1 || n > s.bank.Size() {
		s.count.MarkInvalid()
		s.errMsg = fmt.Sprintf("Enter a question count between 1 and %d.", s.bank.Size())
		return s.setFocus(focusCount)
	}

	mins, err := s.minutes.NumericValue()
	if err != nil || mins < 1 || mins > s.maxMinutes {
		s.minutes.MarkInvalid()
		s.errMsg = fmt.Sprintf("Enter a time limit between 1 and %d minutes.", s.maxMinutes)
		return s.setFocus(focusMinutes)
	}

	if _, err := s.ctrl.Start(s.bank.Records, n, time.Duration(mins)*time.Minute); err != nil {
		var countErr *session.CountError
		if errors.As(err, &countErr) {
			s.count.MarkInvalid()
		}
		s.errMsg = err.Error()
		return nil
	}

	s.errMsg = ""
	next := quiz.New(s.ctrl, s.results, s.bankName)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *ConfigureScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	if height >= bannerMinHeight {
		b.WriteString(center(RenderBanner(width)))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Title.Width(width).Render("Timed Test"))
	b.WriteString("\n")

	if s.bank.Empty() {
		b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf("No questions found in %s.", s.bankName)))
	} else {
		b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf(
			"%s · %d questions from %d %s",
			s.bankName, s.bank.Size(), len(s.bank.Files), plural(len(s.bank.Files), "file", "files"),
		)))
	}
	b.WriteString("\n\n")

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.count.View(),
		"",
		s.minutes.View(),
		"",
		s.start.View(),
	)
	b.WriteString(center(theme.Card.Render(form)))
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Danger.Render(s.errMsg)))
		b.WriteString("\n")
	}

	if w := s.bank.Warnings; len(w) > 0 {
		b.WriteString("\n")
		for i, msg := range w {
			if i == maxWarnings {
				b.WriteString(center(theme.Hint.Render(fmt.Sprintf("… and %d more", len(w)-maxWarnings))))
				b.WriteString("\n")
				break
			}
			b.WriteString(center(theme.Warning.Render("! " + msg)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
