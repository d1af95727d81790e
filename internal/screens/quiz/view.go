package quiz

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/question"
	"github.com/abhisek/quizrun/internal/ui/components"
	"github.com/abhisek/quizrun/internal/ui/layout"
	"github.com/abhisek/quizrun/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	t := s.ctrl.Session()
	q := s.question()
	if t == nil || q == nil {
		return theme.Hint.Width(width).Align(lipgloss.Center).Render("\n\n  No test in progress.")
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder

	// Info line: position on the left, progress and countdown on the right.
	remaining := s.ctrl.Remaining()
	timerStyle := theme.Timer
	if remaining < time.Minute {
		timerStyle = theme.TimerLow
	}
	infoLeft := theme.Selected.Render(fmt.Sprintf("  Q%d/%d", t.Current+1, t.Len()))
	progress := components.NewProgressBar("", float64(t.Answered())/float64(t.Len()), false, 20).View()
	infoRight := progress + "  " + theme.Hint.Render(fmt.Sprintf("%d answered", t.Answered())) +
		"   " + timerStyle.Render("⏱ "+layout.FormatClock(remaining))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 2; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-2, 0))))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(min(width-8, 90)).PaddingLeft(2)
	b.WriteString(body.Foreground(theme.Text).Bold(true).Render(question.DisplayMarkup(q.Text)))
	b.WriteString("\n")

	for _, img := range q.Images {
		b.WriteString(body.Render(theme.Label.Render("Image: ") + theme.Link.Render(img)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.unanswerable():
		b.WriteString(body.Render(theme.Warning.Render("! This question has no valid options and cannot be answered.")))
		b.WriteString("\n")
	case q.Kind == question.KindFreeText:
		b.WriteString(body.Render(theme.Hint.Render("Type your answer")))
		b.WriteString("\n")
		b.WriteString(body.Render(s.input.View()))
		b.WriteString("\n")
	case q.Kind == question.KindMultiChoice:
		b.WriteString(body.Render(theme.Hint.Render("Select all that apply")))
		b.WriteString("\n")
		b.WriteString(body.Render(s.choices.View()))
	default:
		b.WriteString(body.Render(theme.Hint.Render("Select one option")))
		b.WriteString("\n")
		b.WriteString(body.Render(s.choices.View()))
	}

	b.WriteString("\n")
	b.WriteString(body.Render(s.renderNav(t.Current == 0, t.IsLast())))
	return b.String()
}

// renderNav renders the Back and Next/Submit controls.
func (s *QuizScreen) renderNav(first, last bool) string {
	back := theme.ButtonInactive.Render("◂ Back")
	if first {
		back = theme.ButtonDisabled.Render("◂ Back")
	}
	next := theme.ButtonInactive.Render("Next ▸")
	if last {
		next = theme.ButtonActive.Render("Submit")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, back, "  ", next)
}

func renderQuitConfirm(width int) string {
	line := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "Abandon this test?"))
	b.WriteString("\n")
	b.WriteString(line(theme.Hint, "Your answers will not be graded or saved."))
	b.WriteString("\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Error), "[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}
