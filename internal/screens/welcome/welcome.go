// Package welcome is the opening screen: the course title types itself
// out, then the summary and resume line appear until a key is pressed or
// the screen times out.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

const (
	frame    = 40 * time.Millisecond
	perFrame = 2
	// linger is how long the finished screen stays before moving on.
	linger = 2 * time.Second
)

type frameMsg struct{}

// Info is what the welcome screen shows.
type Info struct {
	Title string
	// Summary is a one-line description, such as the course size.
	Summary string
	// Resume greets a returning learner; empty on a first visit.
	Resume string
}

// WelcomeScreen replaces itself with next() on the first key press or
// once it has lingered.
type WelcomeScreen struct {
	info  Info
	title []rune
	shown int
	idle  time.Duration
	next  func() screen.Screen
	done  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(info Info, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{info: info, title: []rune(info.Title), next: next}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(frame, func(time.Time) tea.Msg { return frameMsg{} })
}

// typed reports whether the whole title is on screen.
func (w *WelcomeScreen) typed() bool {
	return w.shown >= len(w.title)
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		if !w.typed() {
			w.shown = min(w.shown+perFrame, len(w.title))
			return w, nextFrame()
		}
		w.idle += frame
		if w.idle >= linger {
			return w, w.finish()
		}
		return w, nextFrame()
	case tea.KeyPressMsg:
		return w, w.finish()
	}
	return w, nil
}

func (w *WelcomeScreen) finish() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	return router.Replace(w.next())
}

func (w *WelcomeScreen) View(width, height int) string {
	title := theme.Title.Render(string(w.title[:w.shown]))
	if !w.typed() {
		title += lipgloss.NewStyle().Foreground(theme.Accent).Render("▍")
	}

	lines := []string{title}
	if w.typed() {
		if w.info.Summary != "" {
			lines = append(lines, theme.Subtitle.Render(w.info.Summary))
		}
		if w.info.Resume != "" {
			lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Secondary).Render(w.info.Resume))
		}
		lines = append(lines, "", theme.Hint.Render("press any key to begin"))
	}

	widest := max(lipgloss.Width(w.info.Title), lipgloss.Width(w.info.Summary), lipgloss.Width(w.info.Resume))
	cardWidth := min(max(widest+8, 40), max(width-4, 20))
	card := theme.Card.Padding(1, 3).Width(cardWidth).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
