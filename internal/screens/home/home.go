package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/screens/conversation"
	notesscreen "github.com/abhisek/coursewalk/internal/screens/notes"
	statsscreen "github.com/abhisek/coursewalk/internal/screens/stats"
	"github.com/abhisek/coursewalk/internal/screens/toc"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/ui/components"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// HomeScreen is the course landing page.
type HomeScreen struct {
	ctx  context.Context
	sess *session.Session
	menu components.Menu
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates a HomeScreen.
func New(ctx context.Context, sess *session.Session) *HomeScreen {
	h := &HomeScreen{ctx: ctx, sess: sess}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	n := h.sess.Index().Len()
	read := "Start reading"
	if h.sess.State().Index > 0 {
		read = "Continue reading"
	}
	return []components.MenuItem{
		{Label: read, Shortcut: "c", Disabled: n == 0,
			Detail: fmt.Sprintf("message %d of %d", h.sess.State().Index+1, n),
			Action: func() tea.Cmd { return router.Push(conversation.New(h.ctx, h.sess)) }},
		{Label: "Contents", Shortcut: "t", Disabled: n == 0,
			Action: func() tea.Cmd { return router.Push(toc.New(h.ctx, h.sess)) }},
		{Label: "Notes", Shortcut: "l",
			Detail: fmt.Sprintf("%d saved", len(h.sess.Notes())),
			Action: func() tea.Cmd { return router.Push(notesscreen.New(h.ctx, h.sess)) }},
		{Label: "Progress", Shortcut: "s",
			Action: func() tea.Cmd { return router.Push(statsscreen.New(h.ctx, h.sess)) }},
		{Label: "Quit", Shortcut: "q",
			Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the menu details after another screen changed the
// position or the notes.
func (h *HomeScreen) Resume() tea.Cmd {
	h.menu = components.NewMenu(h.items()).Reselect(h.menu.Selected)
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	c := h.sess.Course()
	r := h.sess.Report()
	cw := min(width-8, 64)

	var sections []string
	sections = append(sections, theme.Title.Render(c.Config.Title))

	totals := h.sess.Index().Totals()
	sections = append(sections, theme.Subtitle.Render(fmt.Sprintf(
		"%d sections · %d messages · %d quizzes", totals.Sections, totals.Turns, totals.Quizzes)))

	bar := components.NewProgressBar("Read", r.Messages.Done, r.Messages.Total, cw)
	sections = append(sections, bar.View())

	sections = append(sections, theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")))

	content := lipgloss.JoinVertical(lipgloss.Left, strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
