package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// MenuItem is one menu entry. A Shortcut key activates it from anywhere
// in the menu; Detail is a dim second line.
type MenuItem struct {
	Label    string
	Detail   string
	Shortcut string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. The cursor skips disabled items and
// wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// Reselect moves the cursor to i when that item is enabled. Rebuilt menus
// use it to keep the learner's place.
func (m Menu) Reselect(i int) Menu {
	if i >= 0 && i < len(m.Items) && !m.Items[i].Disabled {
		m.Selected = i
	}
	return m
}

// step moves the cursor dir places to the next enabled item.
func (m *Menu) step(dir int) {
	n := len(m.Items)
	for k := 1; k <= n; k++ {
		i := ((m.Selected+dir*k)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch k := key.String(); k {
	case "up", "k":
		m.step(-1)
	case "down", "j", "tab":
		m.step(1)
	case "enter", "space":
		return m, m.run(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Shortcut == k {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

func (m Menu) View() string {
	off := lipgloss.NewStyle().Foreground(theme.Border)

	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label = "[" + item.Shortcut + "] " + label
		}
		if item.Disabled {
			b.WriteString(off.Render("  " + label))
		} else {
			b.WriteString(theme.Row(label, i == m.Selected))
		}
		b.WriteByte('\n')
		if item.Detail != "" {
			b.WriteString(theme.Hint.Render("    " + item.Detail))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
