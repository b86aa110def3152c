package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

var (
	buttonActive = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2)

	buttonInactive = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Padding(0, 2)
)

// ConfirmResult is the state of a Confirm dialog.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmYes
	ConfirmNo
)

// Confirm is a yes/no prompt. No is selected initially so a stray Enter
// never confirms a destructive action.
type Confirm struct {
	Prompt string
	yes    bool
	Result ConfirmResult
}

// NewConfirm returns a pending dialog.
func NewConfirm(prompt string) Confirm {
	return Confirm{Prompt: prompt}
}

// Answer adapts a dialog outcome to the func(prompt) bool callbacks the
// domain packages take.
func (c Confirm) Answer(string) bool {
	return c.Result == ConfirmYes
}

// Update handles y/n, arrows and Enter.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || c.Result != ConfirmPending {
		return c, nil
	}
	switch k.String() {
	case "y", "Y":
		c.Result = ConfirmYes
	case "n", "N", "esc":
		c.Result = ConfirmNo
	case "left", "right", "tab", "h", "l":
		c.yes = !c.yes
	case "enter":
		if c.yes {
			c.Result = ConfirmYes
		} else {
			c.Result = ConfirmNo
		}
	}
	return c, nil
}

// View renders the prompt and both buttons.
func (c Confirm) View() string {
	yes, no := buttonInactive, buttonActive
	if c.yes {
		yes, no = buttonActive, buttonInactive
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), "  ", no.Render("No"))
	return theme.Card.BorderForeground(theme.Accent).Render(
		lipgloss.JoinVertical(lipgloss.Center, theme.Body.Render(c.Prompt), "", buttons),
	)
}
