package app

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/bank"
	"github.com/abhisek/quizrun/internal/config"
	"github.com/abhisek/quizrun/internal/router"
	"github.com/abhisek/quizrun/internal/screen"
	"github.com/abhisek/quizrun/internal/screens/configure"
	"github.com/abhisek/quizrun/internal/session"
	"github.com/abhisek/quizrun/internal/store"
	"github.com/abhisek/quizrun/internal/ui/layout"
)

// Options holds the dependencies the TUI runs with.
type Options struct {
	Bank       *bank.Bank
	BankName   string
	Controller *session.Controller
	Results    store.ResultRepo // nil disables history
	Config     config.Config
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the setup screen.
func newAppModel(opts Options) AppModel {
	if opts.Bank == nil {
		opts.Bank = &bank.Bank{}
	}
	if opts.Controller == nil {
		opts.Controller = session.NewController()
	}

	root := configure.New(opts.Bank, opts.BankName, opts.Controller, opts.Results, opts.Config)
	return AppModel{
		router: router.New(root),
		status: fmt.Sprintf("%s · %d questions", opts.BankName, opts.Bank.Size()),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// footerHints prefers the active screen's own hints.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints := p.KeyHints()
		for _, h := range hints {
			if h.Key == "Ctrl+C" {
				return hints
			}
		}
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the Bubble Tea program. Logs go to the configured log file,
// or to quizrun-debug.log in debug mode, and are discarded otherwise.
func Run(opts Options) error {
	logPath := opts.Config.LogFile
	if logPath == "" && opts.Config.Debug {
		logPath = "quizrun-debug.log"
	}
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "quizrun")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
