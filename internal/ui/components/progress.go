package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// ProgressBar is a labelled bar followed by "done/total (pct%)".
type ProgressBar struct {
	Label string
	// LabelWidth pads the label so stacked bars line up.
	LabelWidth int
	Done       int
	Total      int
	Width      int
}

func NewProgressBar(label string, done, total, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0, 1]; zero when Total is zero.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		pad := max(p.LabelWidth-lipgloss.Width(p.Label), 0)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label + strings.Repeat(" ", pad)))
		b.WriteString("  ")
	}

	frac := p.Fraction()
	counter := fmt.Sprintf("  %d/%d (%d%%)", p.Done, p.Total, int(frac*100+0.5))
	cells := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(counter), 4)
	lit := int(float64(cells) * frac)

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", lit)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", cells-lit)))
	b.WriteString(theme.Subtitle.Render(counter))
	return b.String()
}
