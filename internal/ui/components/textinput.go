package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// TextInput is a labelled single-line field. With a limit set it shows a
// character count once the text gets within a fifth of the limit.
type TextInput struct {
	Model textinput.Model
	Label string
	limit int
}

// NewTextInput returns a focused field. limit <= 0 means no limit.
func NewTextInput(label, placeholder string, limit int) TextInput {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = placeholder
	if limit > 0 {
		in.CharLimit = limit
	}
	in.Focus()
	return TextInput{Model: in, Label: label, limit: max(limit, 0)}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// SetWidth fits the field, label and counter into w columns.
func (t *TextInput) SetWidth(w int) {
	reserved := lipgloss.Width(t.Label) + 4
	if t.limit > 0 {
		reserved += 2*len(fmt.Sprint(t.limit)) + 2
	}
	t.Model.SetWidth(max(w-reserved, 10))
}

func (t TextInput) counter() string {
	if t.limit == 0 {
		return ""
	}
	n := utf8.RuneCountInString(t.Model.Value())
	if n*5 < t.limit*4 {
		return ""
	}
	style := theme.Hint
	if n >= t.limit {
		style = lipgloss.NewStyle().Foreground(theme.Error)
	}
	return " " + style.Render(fmt.Sprintf("%d/%d", n, t.limit))
}

func (t TextInput) View() string {
	field := t.Model.View() + t.counter()
	if t.Label == "" {
		return field
	}
	return theme.Instructor.Render(t.Label) + " " + field
}

// Value is the text without surrounding space.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Reset empties the field.
func (t *TextInput) Reset() {
	t.Model.Reset()
}
