// Package layout draws the frame around screens: header, footer and the
// message shown when the terminal is too small.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewalk/internal/ui/theme"
)

// Smallest terminal the reader lays out in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// Below this width the sidebar narrows.
const compactWidth = 100

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is under MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// SidebarWidth is how many columns at the right edge the media sidebar
// takes. Pointer input in that band belongs to the sidebar.
func SidebarWidth(width int) int {
	if width < compactWidth {
		return 28
	}
	return 36
}

// TooSmall fills the screen with a request to enlarge the terminal.
func TooSmall(width, height int) string {
	msg := fmt.Sprintf("The reader needs at least %d×%d.\nThis terminal is %d×%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render(msg))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// Header shows the course on the left, the open screens as a breadcrumb
// in the middle and status on the right. The breadcrumb loses its oldest
// entries first when space runs out.
func Header(course string, trail []string, status string, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)

	left := theme.Title.Render(course)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)
	room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 2

	crumbs := trail
	mid := breadcrumb(crumbs)
	for len(crumbs) > 1 && lipgloss.Width(mid) > room {
		crumbs = crumbs[1:]
		mid = breadcrumb(append([]string{"…"}, crumbs...))
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(mid)-lipgloss.Width(right), 2)
	lgap := gap / 2
	line := left + strings.Repeat(" ", lgap) + mid + strings.Repeat(" ", gap-lgap) + right
	return bar.Width(width).Render(line)
}

func breadcrumb(titles []string) string {
	parts := make([]string, len(titles))
	for i, t := range titles {
		if i == len(titles)-1 {
			parts[i] = theme.Body.Bold(true).Render(t)
		} else {
			parts[i] = theme.Subtitle.Render(t)
		}
	}
	return strings.Join(parts, theme.Subtitle.Render(" › "))
}

// Footer lists key hints, dropping those that do not fit. The last hint
// is kept whatever the width.
func Footer(hints []KeyHint, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)

	rendered := make([]string, len(hints))
	for i, h := range hints {
		rendered[i] = theme.Body.Bold(true).Render(h.Key) + " " + theme.Subtitle.Render(h.Description)
	}

	const sep = "   "
	var line string
	for i, r := range rendered {
		last := i == len(rendered)-1
		candidate := r
		if line != "" {
			candidate = line + sep + r
		}
		if !last && lipgloss.Width(candidate)+lipgloss.Width(sep+rendered[len(rendered)-1]) > inner {
			continue
		}
		line = candidate
	}
	return bar.Width(width).Render(line)
}

// Frame stacks header, body and footer, clipping the body to the rows
// the bars leave.
func Frame(header, body, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body = lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
