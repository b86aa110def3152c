// Package toc renders the course outline and jumps to the chosen
// subsection.
package toc

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/stats"
	"github.com/abhisek/coursewalk/internal/ui/layout"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// row is one selectable subsection.
type row struct {
	section    course.OutlineSection
	subsection course.OutlineSubsection
	first      bool // first subsection of its section
}

// TOCScreen lists every subsection of the course.
type TOCScreen struct {
	ctx      context.Context
	sess     *session.Session
	rows     []row
	selected int
	offset   int
	errMsg   string
}

var (
	_ screen.Screen          = (*TOCScreen)(nil)
	_ screen.KeyHintProvider = (*TOCScreen)(nil)
)

// New creates a TOCScreen with the current subsection selected.
func New(ctx context.Context, sess *session.Session) *TOCScreen {
	s := &TOCScreen{ctx: ctx, sess: sess}
	cur := sess.State().Index
	for _, sec := range sess.Index().Outline() {
		for i, sub := range sec.Subsections {
			if cur >= sub.Start && cur < sub.Start+sub.Count {
				s.selected = len(s.rows)
			}
			s.rows = append(s.rows, row{section: sec, subsection: sub, first: i == 0})
		}
	}
	return s
}

func (s *TOCScreen) Init() tea.Cmd {
	return nil
}

func (s *TOCScreen) Title() string {
	return "Contents"
}

func (s *TOCScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Go to"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TOCScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.rows)-1 {
			s.selected++
		}
	case "enter":
		return s, s.jump()
	}
	return s, nil
}

// jump moves to the first turn of the selected subsection and closes the
// screen.
func (s *TOCScreen) jump() tea.Cmd {
	if s.selected < 0 || s.selected >= len(s.rows) {
		return nil
	}
	r := s.rows[s.selected]
	if _, err := s.sess.Locate(s.ctx, r.section.ID, r.subsection.ID, 0); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return router.Pop()
}

func (s *TOCScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This course has no sections."))
	}

	visible := max(height-4, 3)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+visible {
		s.offset = s.selected - visible + 1
	}

	st := s.sess.Stats()
	cur := s.sess.State().Index

	var lines []string
	for i := s.offset; i < len(s.rows) && len(lines) < visible; i++ {
		r := s.rows[i]
		if r.first {
			lines = append(lines, theme.Title.Render(fmt.Sprintf("%s  %s", r.section.ID, r.section.Title)))
		}

		mark := "  "
		if st.SubsectionsVisited.Has(stats.SubsectionKey(r.section.ID, r.subsection.ID)) {
			mark = theme.Done.Render("✓ ")
		}
		label := fmt.Sprintf("%s %s  (%d)", r.subsection.ID, r.subsection.Title, r.subsection.Count)
		if cur >= r.subsection.Start && cur < r.subsection.Start+r.subsection.Count {
			label += "  " + theme.Badge.Render("here")
		}

		lines = append(lines, "  "+mark+theme.Row(label, i == s.selected))
	}

	if s.errMsg != "" {
		lines = append(lines, "", theme.Status(s.errMsg, true))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}
