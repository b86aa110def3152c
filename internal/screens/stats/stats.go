// Package stats shows learning progress and offers a progress reset.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/screen"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/stats"
	"github.com/abhisek/coursewalk/internal/ui/components"
	"github.com/abhisek/coursewalk/internal/ui/layout"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// StatsScreen renders the progress report.
type StatsScreen struct {
	ctx        context.Context
	sess       *session.Session
	report     stats.Report
	confirming bool
	confirm    components.Confirm
	status     string
	isError    bool
}

var (
	_ screen.Screen          = (*StatsScreen)(nil)
	_ screen.KeyHintProvider = (*StatsScreen)(nil)
	_ screen.Modal           = (*StatsScreen)(nil)
)

// New creates a StatsScreen.
func New(ctx context.Context, sess *session.Session) *StatsScreen {
	return &StatsScreen{ctx: ctx, sess: sess, report: sess.Report()}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Progress"
}

// Modal reports whether the reset dialog is open.
func (s *StatsScreen) Modal() bool {
	return s.confirming
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "y/n", Description: "Answer"},
			{Key: "←→ Enter", Description: "Choose"},
		}
	}
	return []layout.KeyHint{
		{Key: "r", Description: "Reset progress"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.confirming {
		s.confirm, _ = s.confirm.Update(kmsg)
		switch s.confirm.Result {
		case components.ConfirmYes:
			s.confirming = false
			if err := s.sess.ResetProgress(s.ctx); err != nil {
				s.status, s.isError = err.Error(), true
			} else {
				s.status, s.isError = "Progress reset. Notes and questions were kept.", false
			}
			s.report = s.sess.Report()
		case components.ConfirmNo:
			s.confirming = false
		}
		return s, nil
	}

	if kmsg.String() == "r" {
		s.confirm = components.NewConfirm("Reset all progress? Notes and questions are kept.")
		s.confirming = true
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	r := s.report
	barWidth := min(width-8, 72)

	rows := []struct {
		label string
		ratio stats.Ratio
	}{
		{"Messages", r.Messages},
		{"Sections", r.Sections},
		{"Subsections", r.Subsections},
		{"Images", r.Images},
		{"Videos", r.Videos},
		{"Quizzes", r.Quizzes},
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.sess.Course().Config.Title))
	b.WriteString("\n\n")
	for _, row := range rows {
		bar := components.NewProgressBar(row.label, row.ratio.Done, row.ratio.Total, barWidth)
		bar.LabelWidth = 12
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if r.Attempts == 0 {
		b.WriteString(theme.Hint.Render("No quiz answers yet."))
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Quiz accuracy: %d%% (%d of %d correct)",
			r.Accuracy, r.Correct, r.Attempts)))
	}

	if s.status != "" {
		b.WriteString("\n\n" + theme.Status(s.status, s.isError))
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if s.confirming {
		return lipgloss.JoinVertical(lipgloss.Left, content,
			lipgloss.PlaceHorizontal(width, lipgloss.Center, s.confirm.View()))
	}
	return content
}
