package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. It only collects the choice;
// grading happens outside and is shown with Reveal.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	// Chosen is the submitted option, -1 until the learner picks one.
	Chosen   int
	revealed bool
	correct  int
}

func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Chosen:   -1,
		correct:  -1,
	}
}

// Submitted reports whether an option has been chosen.
func (m MultiChoice) Submitted() bool {
	return m.Chosen >= 0
}

// Reveal marks the correct option and locks the selector.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Chosen = chosen
	m.correct = correct
	m.revealed = true
}

// Revealed reports whether the graded result is being shown.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// Update moves with the arrows or j/k and submits with Enter. The digits
// 1-9 pick and submit in one step. A submitted selector ignores input.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Submitted() || len(m.Options) == 0 {
		return m, nil
	}

	last := len(m.Options) - 1
	switch k := key.String(); k {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, last)
	case "enter":
		m.Chosen = m.Selected
	default:
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected, m.Chosen = n-1, n-1
		}
	}
	return m, nil
}

// optionStyle picks how option i is drawn and the mark after it.
func (m MultiChoice) optionStyle(i int) (lipgloss.Style, string) {
	if !m.revealed {
		if i == m.Selected {
			return theme.Selected, ""
		}
		return theme.Unselected, ""
	}
	switch i {
	case m.correct:
		return theme.Correct, "  ✓"
	case m.Chosen:
		return theme.Incorrect, "  ✗"
	}
	return theme.Subtitle, ""
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")
	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Selected && !m.revealed {
			cursor = "▸ "
		}
		style, mark := m.optionStyle(i)
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s%s", cursor, i+1, opt, mark)))
		b.WriteByte('\n')
	}
	return b.String()
}
