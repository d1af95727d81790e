package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screen"
	"github.com/abhisek/quizrun/internal/store"
	"github.com/abhisek/quizrun/internal/ui/layout"
	"github.com/abhisek/quizrun/internal/ui/theme"
)

// listLimit is how many recent attempts are shown.
const listLimit = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

type answersLoadedMsg struct {
	AttemptID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen displays past attempts and their answers.
type HistoryScreen struct {
	results  store.ResultRepo
	attempts []store.AttemptRecord
	answers  map[string][]store.AnswerRecord // attempt ID → answers
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(results store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{
		results:  results,
		answers:  make(map[string][]store.AnswerRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	results := s.results
	return func() tea.Msg {
		attempts, err := results.ListAttempts(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.AttemptID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.attempts) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAnswers(s.attempts[s.selected].ID)
			}
			return s, nil
		}
	}
	return s, nil
}

// loadAnswers fetches an attempt's answers unless they are cached.
func (s *HistoryScreen) loadAnswers(id string) tea.Cmd {
	if _, ok := s.answers[id]; ok {
		return nil
	}
	results := s.results
	return func() tea.Msg {
		answers, err := results.AttemptAnswers(context.Background(), id)
		return answersLoadedMsg{AttemptID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No tests taken yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderAttempt(prefix, a, i == s.selected)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		answers, ok := s.answers[a.ID]
		switch {
		case !ok:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    Loading answers...")))
			b.WriteString("\n")
		case len(answers) == 0:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    No answers recorded")))
			b.WriteString("\n")
		default:
			for _, ans := range answers {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderAnswer(ans, width)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// FormatAttempt renders one attempt as a single summary line.
func FormatAttempt(a store.AttemptRecord) string {
	var pct float64
	if a.QuestionCount > 0 {
		pct = float64(a.Score) / float64(a.QuestionCount) * 100
	}
	line := fmt.Sprintf("%s  %s  %d/%d  %.0f%%  %s",
		a.StartedAt.Format("Jan 02, 2006 15:04"),
		layout.FormatClock(a.Duration()),
		a.Score, a.QuestionCount, pct, a.Bank)
	if a.TimedOut {
		line += "  (timed out)"
	}
	return line
}

func renderAttempt(prefix string, a store.AttemptRecord, selected bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(prefix + FormatAttempt(a))
}

func renderAnswer(a store.AnswerRecord, width int) string {
	mark := theme.Correct.Render("✓")
	if !a.Correct {
		mark = theme.Incorrect.Render("✗")
	}
	q := a.Question
	if limit := max(width-40, 20); len([]rune(q)) > limit {
		q = string([]rune(q)[:limit-1]) + "…"
	}
	return fmt.Sprintf("    %s %d. %s  %s %s",
		mark, a.Position+1, q,
		theme.Hint.Render("you: "+a.YourAnswer),
		theme.Hint.Render("key: "+a.CorrectAnswer))
}
