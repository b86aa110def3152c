// Package qa builds the dialogue context for learner questions and keeps
// the question and answer history.
package qa

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursewalk/internal/course"
)

// DefaultWindow is the number of turns preceding the target that are
// included in a question's context.
const DefaultWindow = 5

// Window is the recent dialogue around a target turn.
type Window struct {
	Target          course.Turn
	Turns           []course.Turn // preceding turns followed by the target
	SectionTitle    string
	SubsectionTitle string
}

// BuildWindow slices up to size turns before target, plus target itself.
// Short histories start at 0. It reports false when target is not a turn
// of idx.
func BuildWindow(idx *course.Index, target, size int) (Window, bool) {
	turn, ok := idx.At(target)
	if !ok {
		return Window{}, false
	}
	if size < 0 {
		size = 0
	}
	start := max(0, target-size)
	w := Window{
		Target:          turn,
		Turns:           make([]course.Turn, 0, target-start+1),
		SectionTitle:    orUnknown(turn.SectionTitle),
		SubsectionTitle: orUnknown(turn.SubsectionTitle),
	}
	for i := start; i <= target; i++ {
		t, _ := idx.At(i)
		w.Turns = append(w.Turns, t)
	}
	return w, true
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func line(t course.Turn) string {
	return fmt.Sprintf("%s: %s", t.Speaker.Label(), t.Text)
}

// History renders the window's turns as "Speaker: text" lines.
func (w Window) History() string {
	lines := make([]string, len(w.Turns))
	for i, t := range w.Turns {
		lines[i] = line(t)
	}
	return strings.Join(lines, "\n")
}

// String renders the full context handed to the answering service.
func (w Window) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Section: %s\n", w.SectionTitle)
	fmt.Fprintf(&b, "Current Subsection: %s\n", w.SubsectionTitle)
	b.WriteString("Recent Conversation:\n")
	b.WriteString(w.History())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current Message: %s", line(w.Target))
	return b.String()
}
