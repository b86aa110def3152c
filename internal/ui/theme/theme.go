// Package theme holds the palette and shared styles. Colours favour long
// reading on dark terminals: low-contrast chrome, bright body text.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#7C9CF5") // periwinkle, titles and focus
	Secondary = lipgloss.Color("#5EC4B6") // sea green, the instructor
	Accent    = lipgloss.Color("#F0A35E") // amber, the learner and badges
	Success   = lipgloss.Color("#7BC67E")
	Error     = lipgloss.Color("#E5676B")
	Text      = lipgloss.Color("#E8E6E3")
	TextDim   = lipgloss.Color("#8F96A3")
	BgDark    = lipgloss.Color("#14161B")
	BgCard    = lipgloss.Color("#1D2027")
	Border    = lipgloss.Color("#3A3F4B")
)

var (
	Title    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Instructor = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Learner    = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	Card        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
	FocusedCard = Card.BorderForeground(Primary)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Done       = lipgloss.NewStyle().Foreground(Success)

	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
	Badge          = lipgloss.NewStyle().Foreground(BgDark).Background(Accent).Bold(true).Padding(0, 1)
)

// Status renders a one-line outcome message in green, or red for errors.
func Status(msg string, isError bool) string {
	c := Success
	if isError {
		c = Error
	}
	return lipgloss.NewStyle().Foreground(c).Render(msg)
}

// Row renders a list entry with the selection marker when selected.
func Row(label string, selected bool) string {
	if selected {
		return Selected.Render("▸ " + label)
	}
	return Unselected.Render("  " + label)
}
