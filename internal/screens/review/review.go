package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screen"
	"github.com/abhisek/quizrun/internal/screens/history"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
	"github.com/abhisek/quizrun/internal/ui/components"
	"github.com/abhisek/quizrun/internal/ui/layout"
	"github.com/abhisek/quizrun/internal/ui/theme"
)

// AttemptSavedMsg reports whether a finished test was recorded.
type AttemptSavedMsg struct {
	ID  string
	Err error
}

// TimeUpMessage is shown when the countdown completed the test.
const TimeUpMessage = "Time's Up! Auto-submitted."

// ReviewScreen shows the score and per-question report of a finished test.
type ReviewScreen struct {
	ctrl    *session.Controller
	summary *session.Summary
	rows    []session.ReviewRow
	menu    components.Menu
	offset  int
	saved   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.EscapeHandler = (*ReviewScreen)(nil)

// New creates a ReviewScreen for a completed test. results may be nil.
func New(ctrl *session.Controller, results store.ResultRepo, t *session.TestSession) *ReviewScreen {
	s := &ReviewScreen{
		ctrl:    ctrl,
		summary: session.BuildSummary(t),
		rows:    session.BuildReview(t),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Restart", Shortcut: "r", Action: s.restart},
		{
			Label:    "History",
			Shortcut: "h",
			Disabled: results == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(results)}
				}
			},
		},
		{Label: "Quit", Shortcut: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

func (s *ReviewScreen) HandlesEscape() bool {
	return true
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "←→", Description: "Choose"},
		{Key: "R", Description: "Restart"},
		{Key: "Q", Description: "Quit"},
	}
}

// restart discards the finished test and returns to setup.
func (s *ReviewScreen) restart() tea.Cmd {
	s.ctrl.Restart()
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case AttemptSavedMsg:
		if msg.Err != nil {
			s.saved = "Result could not be saved."
		} else {
			s.saved = "Result saved to history."
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, s.restart()
		case "up", "k":
			s.offset = max(s.offset-1, 0)
			return s, nil
		case "down", "j":
			s.offset++
			return s, nil
		case "pgup":
			s.offset = max(s.offset-10, 0)
			return s, nil
		case "pgdown":
			s.offset += 10
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ReviewScreen) View(width, height int) string {
	var top strings.Builder
	if s.summary.TimedOut {
		top.WriteString(theme.Warning.Bold(true).Width(width).Align(lipgloss.Center).Render(TimeUpMessage))
		top.WriteString("\n")
	}
	top.WriteString(theme.Title.Width(width).Render(fmt.Sprintf("Score: %d / %d", s.summary.Score, s.summary.Total)))
	top.WriteString("\n")
	top.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf(
		"%.0f%% correct · %d of %d answered · %s",
		s.summary.Percent*100, s.summary.Answered, s.summary.Total, layout.FormatClock(s.summary.Duration),
	)))
	top.WriteString("\n")
	if s.saved != "" {
		top.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(s.saved))
		top.WriteString("\n")
	}

	bottom := "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View())

	// The report scrolls in whatever space is left.
	lines := s.reportLines(min(width-8, 100))
	avail := max(height-lipgloss.Height(top.String())-lipgloss.Height(bottom)-1, 1)
	s.offset = min(s.offset, max(len(lines)-avail, 0))
	end := min(s.offset+avail, len(lines))

	return top.String() + "\n" + strings.Join(lines[s.offset:end], "\n") + bottom
}

// reportLines renders every review row as indented lines.
func (s *ReviewScreen) reportLines(width int) []string {
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width-6, 10))
	var lines []string
	for _, r := range s.rows {
		mark := theme.Correct.Render("✓")
		answerStyle := theme.Correct
		if !r.Correct {
			mark = theme.Incorrect.Render("✗")
			answerStyle = theme.Incorrect
		}

		q := text.Render(fmt.Sprintf("%d. %s", r.Index+1, r.Question))
		block := []string{
			mark + " " + strings.ReplaceAll(q, "\n", "\n  "),
			"    " + theme.Label.Render("Your answer: ") + answerStyle.Render(r.YourAnswer),
			"    " + theme.Label.Render("Correct answer: ") + theme.Body.Render(r.CorrectAnswer),
		}
		if r.AnswerLink != "" {
			block = append(block, "    "+theme.Label.Render("Explanation: ")+theme.Link.Render(r.AnswerLink))
		}
		block = append(block, "")

		for _, l := range block {
			lines = append(lines, strings.Split("  "+l, "\n")...)
		}
	}
	return lines
}
