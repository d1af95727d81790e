package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/ui/theme"
)

// MenuItem represents a single item in an action menu. Shortcut, when set,
// triggers the item from anywhere in the menu.
type MenuItem struct {
	Label    string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a horizontal action menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	for _, item := range m.Items {
		if item.Shortcut != "" && item.Shortcut == key && !item.Disabled && item.Action != nil {
			return m, item.Action()
		}
	}

	switch key {
	case "left":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "right":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu on one line.
func (m Menu) View() string {
	parts := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label += " (" + item.Shortcut + ")"
		}
		switch {
		case item.Disabled:
			parts = append(parts, theme.Disabled.Render("  "+label))
		case i == m.Selected:
			parts = append(parts, theme.Selected.Render("▸ "+label))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Render("  "+label))
		}
	}
	return strings.Join(parts, "   ")
}
