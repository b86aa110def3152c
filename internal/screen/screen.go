// Package screen defines what the router needs from a screen, plus the
// optional hooks it calls as screens are covered and uncovered.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewalk/internal/ui/layout"
)

// Screen is one full view between the header and the footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders into the content area only.
	View(width, height int) string
	// Title names the screen in the header.
	Title() string
}

// KeyHintProvider supplies the footer hints. Screens without it get a
// generic set.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Coverable screens are told when another screen opens over them. Timers
// aimed at a covered screen never arrive, so this is where they stop.
type Coverable interface {
	Cover()
}

// Resumer screens re-read shared state when they are uncovered.
type Resumer interface {
	Resume() tea.Cmd
}

// Modal screens keep Esc for themselves while Modal returns true, for a
// form or a confirmation that Esc should cancel.
type Modal interface {
	Modal() bool
}
