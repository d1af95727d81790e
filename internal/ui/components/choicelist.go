package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/ui/theme"
)

// Choice is one selectable option.
type Choice struct {
	Key  string
	Text string
}

// ChoiceList is a keyboard-driven option list. In single mode it behaves
// like a radio group; in multi mode like a set of checkboxes.
type ChoiceList struct {
	Choices  []Choice
	Multi    bool
	Cursor   int
	Disabled bool
	checked  map[string]bool
}

// NewChoiceList creates a list with nothing selected.
func NewChoiceList(choices []Choice, multi bool) ChoiceList {
	return ChoiceList{
		Choices: choices,
		Multi:   multi,
		checked: make(map[string]bool),
	}
}

// Update moves the cursor and toggles selection. The bool reports whether
// the selection was modified.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	if c.Disabled || len(c.Choices) == 0 {
		return c, false
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	case "space", " ", "enter", "x":
		return c, c.toggle(c.Cursor)
	default:
		// Number keys pick an option directly.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Choices) {
				c.Cursor = i
				return c, c.toggle(i)
			}
		}
	}
	return c, false
}

func (c *ChoiceList) toggle(i int) bool {
	key := c.Choices[i].Key
	if c.Multi {
		c.checked[key] = !c.checked[key]
		if !c.checked[key] {
			delete(c.checked, key)
		}
		return true
	}
	if c.checked[key] {
		return false
	}
	clear(c.checked)
	c.checked[key] = true
	return true
}

// Select marks the given keys as chosen, ignoring unknown ones. In single
// mode only the last known key is kept.
func (c *ChoiceList) Select(keys ...string) {
	for _, k := range keys {
		if !slices.ContainsFunc(c.Choices, func(ch Choice) bool { return ch.Key == k }) {
			continue
		}
		if !c.Multi {
			clear(c.checked)
		}
		c.checked[k] = true
	}
}

// Selected returns the chosen keys in option order.
func (c ChoiceList) Selected() []string {
	var out []string
	for _, ch := range c.Choices {
		if c.checked[ch.Key] {
			out = append(out, ch.Key)
		}
	}
	return out
}

// View renders the options.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, ch := range c.Choices {
		mark := "( )"
		if c.Multi {
			mark = "[ ]"
		}
		if c.checked[ch.Key] {
			mark = "(•)"
			if c.Multi {
				mark = "[x]"
			}
		}

		prefix := "  "
		if i == c.Cursor && !c.Disabled {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s: %s", prefix, mark, ch.Key, ch.Text)

		switch {
		case c.Disabled:
			b.WriteString(theme.Disabled.Render(line))
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case c.checked[ch.Key]:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
