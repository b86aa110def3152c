package conversation

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/stats"
	"github.com/abhisek/coursewalk/internal/ui/layout"
	"github.com/abhisek/coursewalk/internal/ui/theme"
)

func (c *ConversationScreen) View(width, height int) string {
	t, ok := c.sess.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This course has no messages yet."))
	}

	sw := layout.SidebarWidth(width)
	mainWidth := width - sw

	main := c.renderMain(t, mainWidth-2)
	side := c.renderSidebar(t, sw-2, height)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(mainWidth).Padding(0, 1).Render(main),
		side,
	)
}

func (c *ConversationScreen) renderMain(t course.Turn, width int) string {
	var b strings.Builder

	crumb := t.SectionTitle
	if t.SubsectionTitle != "" {
		crumb += " › " + t.SubsectionTitle
	}
	b.WriteString(theme.Subtitle.Render(crumb))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0))))
	b.WriteString("\n\n")

	speaker := theme.Instructor
	if t.Speaker == course.SpeakerLearner {
		speaker = theme.Learner
	}
	b.WriteString(speaker.Render(t.Speaker.Label()))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(width).Render(t.Text))
	b.WriteString("\n\n")

	b.WriteString(c.renderControls(t, width))

	switch c.mode {
	case modeQuiz:
		b.WriteString("\n\n")
		b.WriteString(theme.Card.Width(width).Render(c.renderQuiz(width - 4)))
	case modeNote:
		b.WriteString("\n\n")
		b.WriteString(c.editor.View())
	default:
		if panel := c.renderQuestions(t, width); panel != "" {
			b.WriteString("\n\n")
			b.WriteString(panel)
		}
	}

	if c.status != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Status(c.status, c.isError))
	}

	return b.String()
}

func (c *ConversationScreen) renderControls(t course.Turn, width int) string {
	st := c.sess.State()
	n := c.sess.Index().Len()

	pos := theme.Hint.Render(fmt.Sprintf("Message %d of %d", t.Index+1, n))

	speed := c.sess.AutoplaySettings().Speed
	var play string
	if st.Autoplay {
		play = theme.Badge.Render(fmt.Sprintf("▶ autoplay %.1fs", speed.Seconds()))
	} else {
		play = theme.Hint.Render(fmt.Sprintf("⏸ autoplay off · %.1fs", speed.Seconds()))
	}

	gap := max(width-lipgloss.Width(pos)-lipgloss.Width(play), 1)
	return pos + strings.Repeat(" ", gap) + play
}

func (c *ConversationScreen) renderQuiz(width int) string {
	s := c.quiz.View()
	if c.quiz.Revealed() && c.detail != "" {
		s += "\n" + theme.Hint.Width(width).Render(c.detail)
	}
	return s
}

func (c *ConversationScreen) renderQuestions(t course.Turn, width int) string {
	var parts []string

	if hist := c.sess.HistoryFor(t.Index); len(hist) > 0 {
		r := hist[len(hist)-1]
		q := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Q ") + theme.Body.Render(r.Question)
		answerStyle := theme.Body
		if r.IsError {
			answerStyle = lipgloss.NewStyle().Foreground(theme.Error)
		}
		a := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("A ") + answerStyle.Width(width-2).Render(r.Answer)
		parts = append(parts, q, a)
		if len(hist) > 1 {
			parts = append(parts, theme.Hint.Render(fmt.Sprintf("%d earlier questions about this message", len(hist)-1)))
		}
	}

	switch {
	case c.asking:
		parts = append(parts, c.spinner.View()+" "+theme.Hint.Render("Thinking..."))
	case c.mode == modeAsk:
		parts = append(parts, c.ask.View())
	}

	return strings.Join(parts, "\n")
}

func (c *ConversationScreen) renderSidebar(t course.Turn, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Sidebar"))
	b.WriteString("\n\n")

	es := entries(t)
	if len(es) == 0 {
		b.WriteString(theme.Hint.Render("Nothing here for this message."))
	}

	st := c.sess.Stats()
	for i, e := range es {
		key := stats.MediaKey(t.Index, e.kind, e.offset)
		var label string
		var done bool
		switch m := e.item.(type) {
		case *course.Image:
			label, done = "▣ "+m.Alt, st.ImagesViewed.Has(key)
		case *course.Video:
			label, done = "▶ "+m.Title, st.VideosWatched.Has(key)
		case *course.Quiz:
			label, done = "? "+m.Question, st.QuizzesCompleted.Has(key)
		}
		label = truncate(label, width-4)
		if done {
			label += " " + theme.Done.Render("✓")
		}

		b.WriteString(theme.Row(label, c.focus == focusSidebar && i == c.mediaSel))
		b.WriteString("\n")
	}

	if c.detail != "" && c.mode != modeQuiz {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(width - 2).Render(c.detail))
	}

	card := theme.Card
	if c.focus == focusSidebar {
		card = theme.FocusedCard
	}
	return card.Width(width).Height(max(height-2, 3)).Render(b.String())
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
