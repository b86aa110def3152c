package components

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// NoteEditor is a two-field form: a one-line title and a multi-line body.
// Tab moves focus between the fields.
type NoteEditor struct {
	title   textinput.Model
	content textarea.Model
	onBody  bool
	// ready is false for the zero value, whose textarea cannot be sized.
	ready bool

	// Heading is shown above the form, e.g. "New note" or "Edit note".
	Heading string
}

// NewNoteEditor returns an editor with the title field focused.
func NewNoteEditor(heading, title, content string) NoteEditor {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = "Title › "
	ti.CharLimit = 120
	ti.SetValue(title)
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.SetValue(content)
	ta.Blur()

	return NoteEditor{title: ti, content: ta, Heading: heading, ready: true}
}

// Init returns the initial command.
func (e NoteEditor) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize fits the body field into the given box. It does nothing until
// the editor has been built with NewNoteEditor.
func (e *NoteEditor) SetSize(width, height int) {
	if !e.ready {
		return
	}
	e.title.SetWidth(max(width-10, 10))
	e.content.SetWidth(max(width-2, 10))
	e.content.SetHeight(max(height-6, 3))
}

// Update routes keys to the focused field.
func (e NoteEditor) Update(msg tea.Msg) (NoteEditor, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "tab" {
		e.onBody = !e.onBody
		if e.onBody {
			e.title.Blur()
			return e, e.content.Focus()
		}
		e.content.Blur()
		return e, e.title.Focus()
	}

	var cmd tea.Cmd
	if e.onBody {
		e.content, cmd = e.content.Update(msg)
	} else {
		e.title, cmd = e.title.Update(msg)
	}
	return e, cmd
}

// Values returns the raw title and content. Validation is left to the
// notes manager.
func (e NoteEditor) Values() (title, content string) {
	return e.title.Value(), e.content.Value()
}

// View renders the form.
func (e NoteEditor) View() string {
	head := theme.Title.Render(e.Heading)
	hint := theme.Hint.Render("tab switch field · ctrl+s save · esc cancel")

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	if e.onBody {
		body = body.BorderForeground(theme.Primary)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		"",
		e.title.View(),
		body.Render(e.content.View()),
		hint,
	)
}
