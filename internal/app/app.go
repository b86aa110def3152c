// Package app hosts the root Bubble Tea model: the screen router wrapped in
// the header and footer frame.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/screens/home"
	"github.com/abhisek/coursewalk/internal/screens/welcome"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	sess   *session.Session
	logger *zap.Logger
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel that opens on the welcome screen and
// continues to the course home.
func newAppModel(ctx context.Context, sess *session.Session, logger *zap.Logger) AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	totals := sess.Index().Totals()
	info := welcome.Info{
		Title:   sess.Course().Config.Title,
		Summary: fmt.Sprintf("%d sections · %d messages", totals.Sections, totals.Turns),
		Resume:  session.Welcome(sess.Previous()),
	}
	next := func() screen.Screen { return home.New(ctx, sess) }
	return AppModel{
		sess:   sess,
		logger: logger.Named("app"),
		router: router.New(welcome.New(info, next)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(m.contentSize())

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.sess.StopAutoplay()
			return m, tea.Quit
		case "esc":
			if cmd, ok := m.router.Back(); ok {
				return m, m.afterNavigation(cmd)
			}
			if m.router.Depth() == 1 {
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	if router.Navigating(msg) {
		return m, m.afterNavigation(cmd)
	}
	return m, cmd
}

// afterNavigation logs the new stack and sizes the screen now on top.
func (m AppModel) afterNavigation(cmd tea.Cmd) tea.Cmd {
	m.logger.Debug("screen changed",
		zap.Strings("trail", m.router.Trail()),
		zap.Int("depth", m.router.Depth()))
	if m.width == 0 {
		return cmd
	}
	return tea.Batch(cmd, m.router.Update(m.contentSize()))
}

// contentSize is the area left to the active screen between header and
// footer.
func (m AppModel) contentSize() tea.WindowSizeMsg {
	header := m.header()
	footer := m.footer()
	h := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return tea.WindowSizeMsg{Width: m.width, Height: h}
}

func (m AppModel) status() string {
	n := m.sess.Index().Len()
	if n == 0 {
		return ""
	}
	st := m.sess.State()
	s := fmt.Sprintf("%d/%d · %d%%  ", st.Index+1, n, m.sess.Report().Messages.Percent)
	if st.Autoplay {
		s = "▶ " + s
	}
	return s
}

func (m AppModel) header() string {
	return layout.Header(m.sess.Course().Config.Title, m.router.Trail(), m.status(), m.width)
}

func (m AppModel) footer() string {
	var hints []layout.KeyHint
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	return layout.Footer(hints, m.width)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.TooSmall(m.width, m.height))
		return v
	}

	header := m.header()
	footer := m.footer()
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.Frame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until the learner quits.
func Run(ctx context.Context, sess *session.Session, logger *zap.Logger) error {
	p := tea.NewProgram(newAppModel(ctx, sess, logger), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	sess.StopAutoplay()
	return nil
}
