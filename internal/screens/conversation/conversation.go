package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewalk/internal/autoplay"
	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/navigation"
	"github.com/abhisek/coursewalk/internal/notes"
	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/screen"
	notesscreen "github.com/abhisek/coursewalk/internal/screens/notes"
	statsscreen "github.com/abhisek/coursewalk/internal/screens/stats"
	"github.com/abhisek/coursewalk/internal/screens/toc"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/ui/components"
	"github.com/abhisek/coursewalk/internal/ui/layout"
)

// Pointer positions arrive in cells; the navigation thresholds are in
// pixels.
const (
	cellWidth  = 8
	cellHeight = 16

	// wheelNotch is the delta reported for one wheel step.
	wheelNotch = 100
)

type mode int

const (
	modeRead mode = iota
	modeAsk
	modeQuiz
	modeNote
)

type focus int

const (
	focusMain focus = iota
	focusSidebar
)

// entry is one sidebar item with its offset among items of the same kind.
type entry struct {
	item   course.MediaItem
	kind   course.MediaKind
	offset int
}

func entries(t course.Turn) []entry {
	seen := map[course.MediaKind]int{}
	out := make([]entry, 0, len(t.Sidebar))
	for _, m := range t.Sidebar {
		k := m.Kind()
		out = append(out, entry{item: m, kind: k, offset: seen[k]})
		seen[k]++
	}
	return out
}

// ConversationScreen shows the current turn, its media sidebar, autoplay
// controls and the question panel.
type ConversationScreen struct {
	ctx  context.Context
	sess *session.Session

	width, height int
	shown         int

	mode     mode
	focus    focus
	mediaSel int
	detail   string

	quiz       components.MultiChoice
	quizOffset int

	ask     components.TextInput
	spinner spinner.Model
	asking  bool

	editor components.NoteEditor

	status  string
	isError bool
}

var (
	_ screen.Screen          = (*ConversationScreen)(nil)
	_ screen.KeyHintProvider = (*ConversationScreen)(nil)
	_ screen.Modal           = (*ConversationScreen)(nil)
	_ screen.Coverable       = (*ConversationScreen)(nil)
	_ screen.Resumer         = (*ConversationScreen)(nil)
)

// New creates a ConversationScreen over sess.
func New(ctx context.Context, sess *session.Session) *ConversationScreen {
	return &ConversationScreen{
		ctx:     ctx,
		sess:    sess,
		shown:   sess.State().Index,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		ask:     components.NewTextInput("Ask", "Ask about this message...", 500),
		editor:  components.NewNoteEditor("New note", "", ""),
	}
}

func (c *ConversationScreen) Init() tea.Cmd {
	return nil
}

func (c *ConversationScreen) Title() string {
	t, ok := c.sess.Current()
	if !ok {
		return "Conversation"
	}
	if t.SubsectionTitle == "" {
		return t.SectionTitle
	}
	return t.SectionTitle + " › " + t.SubsectionTitle
}

// Modal reports whether Esc belongs to an open form.
func (c *ConversationScreen) Modal() bool {
	return c.mode != modeRead
}

// Resume picks up moves made by the contents screen. An answer that
// arrived while another screen was on top is already in the history.
func (c *ConversationScreen) Resume() tea.Cmd {
	c.sync()
	if c.asking {
		if !c.sess.Pending() {
			c.asking = false
			return nil
		}
		return c.spinner.Tick
	}
	return nil
}

func (c *ConversationScreen) KeyHints() []layout.KeyHint {
	switch c.mode {
	case modeAsk:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeQuiz:
		if c.quiz.Revealed() {
			return []layout.KeyHint{{Key: "any key", Description: "Back"}}
		}
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "Close"},
		}
	case modeNote:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Field"},
			{Key: "Ctrl+S", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if c.focus == focusSidebar {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Media"},
			{Key: "Enter", Description: "Open"},
			{Key: "Tab", Description: "Conversation"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Prev/Next"},
		{Key: "Space", Description: "Autoplay"},
		{Key: "+/-", Description: "Speed"},
		{Key: "Tab", Description: "Sidebar"},
		{Key: "a", Description: "Ask"},
		{Key: "n", Description: "Note"},
		{Key: "t/l/s", Description: "Contents/Notes/Stats"},
	}
}

func (c *ConversationScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	cmd := c.update(msg)
	c.sync()
	return c, cmd
}

func (c *ConversationScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.resize(msg.Width, msg.Height)
		return nil

	case autoplayTickMsg:
		_, next, _ := c.sess.AutoplayTick(c.ctx, msg.Gen)
		return schedule(next)

	case answerMsg:
		c.asking = false
		switch {
		case msg.Err != nil:
			c.setError(msg.Err.Error())
		case msg.Response.IsError:
			c.setError("The question could not be answered.")
		default:
			c.setStatus("Answer received.")
		}
		return nil

	case spinner.TickMsg:
		if !c.asking {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd

	case tea.MouseWheelMsg:
		return c.handleWheel(msg.Mouse())

	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button == tea.MouseLeft {
			c.sess.TouchStart(pointer(m))
		}
		return nil

	case tea.MouseMotionMsg:
		m := msg.Mouse()
		if m.Button == tea.MouseLeft {
			c.sess.TouchMove(c.ctx, pointer(m))
		}
		return nil

	case tea.MouseReleaseMsg:
		c.sess.TouchEnd()
		return nil

	case tea.KeyPressMsg:
		return c.handleKey(msg)
	}

	switch c.mode {
	case modeAsk:
		var cmd tea.Cmd
		c.ask, cmd = c.ask.Update(msg)
		return cmd
	case modeNote:
		var cmd tea.Cmd
		c.editor, cmd = c.editor.Update(msg)
		return cmd
	}
	return nil
}

func (c *ConversationScreen) resize(w, h int) {
	c.width, c.height = w, h
	sw := layout.SidebarWidth(w)
	c.sess.SetSidebar(navigation.Rect{
		X: float64((w - sw) * cellWidth),
		Y: 0,
		W: float64(sw * cellWidth),
		H: float64(h * cellHeight),
	})
	c.ask.SetWidth(w - sw)
	c.editor.SetSize(w-sw-4, h-8)
}

func pointer(m tea.Mouse) navigation.Point {
	return navigation.Point{X: float64(m.X * cellWidth), Y: float64(m.Y * cellHeight)}
}

func (c *ConversationScreen) handleWheel(m tea.Mouse) tea.Cmd {
	var dy float64
	switch m.Button {
	case tea.MouseWheelDown:
		dy = wheelNotch
	case tea.MouseWheelUp:
		dy = -wheelNotch
	default:
		return nil
	}
	c.sess.Wheel(c.ctx, dy, pointer(m))
	return nil
}

func modifiers(k tea.KeyPressMsg) navigation.Modifiers {
	return navigation.Modifiers{
		Ctrl:  k.Mod&tea.ModCtrl != 0,
		Alt:   k.Mod&tea.ModAlt != 0,
		Meta:  k.Mod&tea.ModMeta != 0,
		Super: k.Mod&tea.ModSuper != 0,
		Shift: k.Mod&tea.ModShift != 0,
	}
}

func (c *ConversationScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch c.mode {
	case modeAsk:
		return c.handleAskKey(msg)
	case modeQuiz:
		return c.handleQuizKey(msg)
	case modeNote:
		return c.handleNoteKey(msg)
	}

	// Arrow keys go through the navigation controller in both focus
	// states; it ignores them when the sidebar has focus.
	target := navigation.TargetMain
	if c.focus == focusSidebar {
		target = navigation.TargetSidebar
	}
	switch msg.Code {
	case tea.KeyUp:
		c.sess.Key(c.ctx, navigation.KeyUp, target, modifiers(msg))
		if c.focus == focusSidebar && c.mediaSel > 0 {
			c.mediaSel--
		}
		return nil
	case tea.KeyDown:
		c.sess.Key(c.ctx, navigation.KeyDown, target, modifiers(msg))
		if c.focus == focusSidebar {
			if t, ok := c.sess.Current(); ok && c.mediaSel < len(t.Sidebar)-1 {
				c.mediaSel++
			}
		}
		return nil
	}

	switch msg.String() {
	case "tab":
		if c.focus == focusMain {
			c.focus = focusSidebar
		} else {
			c.focus = focusMain
		}
		return nil
	case "enter":
		if c.focus == focusSidebar {
			return c.openMedia()
		}
		return nil
	case "space":
		return c.toggleAutoplay()
	case "+", "=":
		_, tick := c.sess.AutoplayFaster()
		return schedule(tick)
	case "-", "_":
		_, tick := c.sess.AutoplaySlower()
		return schedule(tick)
	case "home", "g":
		c.sess.JumpTo(c.ctx, 0)
		return nil
	case "end", "G":
		c.sess.JumpTo(c.ctx, c.sess.Index().Len()-1)
		return nil
	case "a", "?":
		return c.openAsk()
	case "n":
		return c.openEditor()
	case "t":
		return c.push(toc.New(c.ctx, c.sess))
	case "l":
		return c.push(notesscreen.New(c.ctx, c.sess))
	case "s":
		return c.push(statsscreen.New(c.ctx, c.sess))
	}
	return nil
}

func (c *ConversationScreen) push(s screen.Screen) tea.Cmd {
	return router.Push(s)
}

// Cover pauses autoplay: its ticks would go to the screen on top.
func (c *ConversationScreen) Cover() {
	if c.sess.State().Autoplay {
		c.sess.StopAutoplay()
		c.setStatus("Autoplay paused.")
	}
}

func schedule(t autoplay.Tick) tea.Cmd {
	if !t.Armed() {
		return nil
	}
	gen := t.Gen
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return autoplayTickMsg{Gen: gen}
	})
}

func (c *ConversationScreen) toggleAutoplay() tea.Cmd {
	tick, ok := c.sess.ToggleAutoplay()
	switch {
	case ok:
		c.setStatus(fmt.Sprintf("Autoplay on, every %s.", c.sess.AutoplaySettings().Speed))
	case c.sess.State().Autoplay:
		c.setStatus("")
	case c.sess.State().Index >= c.sess.Index().Len()-1:
		c.setStatus("Autoplay stays off on the last message.")
	default:
		c.setStatus("Autoplay paused.")
	}
	return schedule(tick)
}

func (c *ConversationScreen) openMedia() tea.Cmd {
	t, ok := c.sess.Current()
	if !ok {
		return nil
	}
	es := entries(t)
	if c.mediaSel < 0 || c.mediaSel >= len(es) {
		return nil
	}
	e := es[c.mediaSel]

	if e.kind == course.KindQuiz {
		q := e.item.(*course.Quiz)
		c.quiz = components.NewMultiChoice(q.Question, q.Options)
		c.quizOffset = e.offset
		if out, ok := c.sess.QuizAnswer(e.offset); ok {
			c.quiz.Reveal(out.Selected, out.CorrectAnswer)
			c.detail = out.Explanation
		} else {
			c.detail = ""
		}
		c.mode = modeQuiz
		return nil
	}

	item, err := c.sess.OpenMedia(c.ctx, e.kind, e.offset)
	if err != nil {
		c.setError(err.Error())
		return nil
	}
	switch m := item.(type) {
	case *course.Image:
		c.detail = fmt.Sprintf("Image: %s\n%s", m.Alt, m.Src)
	case *course.Video:
		c.detail = fmt.Sprintf("Video: %s\n%s", m.Title, m.Src)
	}
	return nil
}

func (c *ConversationScreen) handleQuizKey(msg tea.KeyPressMsg) tea.Cmd {
	if c.quiz.Revealed() || msg.String() == "esc" {
		c.mode = modeRead
		return nil
	}

	c.quiz, _ = c.quiz.Update(msg)
	if !c.quiz.Submitted() {
		return nil
	}

	out, err := c.sess.AnswerSidebarQuiz(c.ctx, c.quizOffset, c.quiz.Chosen)
	if err != nil {
		c.setError(err.Error())
		c.mode = modeRead
		return nil
	}
	c.quiz.Reveal(out.Selected, out.CorrectAnswer)
	c.detail = out.Explanation
	if out.Correct {
		c.setStatus("Correct!")
	} else {
		c.setError("Not quite.")
	}
	return nil
}

func (c *ConversationScreen) openAsk() tea.Cmd {
	if !c.sess.CanAsk() {
		c.setError(session.ErrNoAsker.Error())
		return nil
	}
	if c.asking {
		return nil
	}
	c.ask = components.NewTextInput("Ask", "Ask about this message...", 500)
	c.ask.SetWidth(c.width - layout.SidebarWidth(c.width))
	c.mode = modeAsk
	return c.ask.Init()
}

func (c *ConversationScreen) handleAskKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.mode = modeRead
		return nil
	case "enter":
		question := c.ask.Value()
		c.mode = modeRead
		c.asking = true
		c.setStatus("")
		ctx, sess := c.ctx, c.sess
		return tea.Batch(c.spinner.Tick, func() tea.Msg {
			r, err := sess.Ask(ctx, question)
			return answerMsg{Response: r, Err: err}
		})
	}
	var cmd tea.Cmd
	c.ask, cmd = c.ask.Update(msg)
	return cmd
}

func (c *ConversationScreen) openEditor() tea.Cmd {
	c.editor = components.NewNoteEditor("New note", "", "")
	c.editor.SetSize(c.width-layout.SidebarWidth(c.width)-4, c.height-8)
	c.mode = modeNote
	return c.editor.Init()
}

func (c *ConversationScreen) handleNoteKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.mode = modeRead
		return nil
	case "ctrl+s":
		title, content := c.editor.Values()
		if _, err := c.sess.SaveNote(c.ctx, title, content); err != nil {
			var verr *notes.ValidationError
			if errors.As(err, &verr) {
				c.setError(verr.Error())
				return nil
			}
			c.setError(err.Error())
			return nil
		}
		c.mode = modeRead
		c.setStatus("Note saved.")
		return nil
	}
	var cmd tea.Cmd
	c.editor, cmd = c.editor.Update(msg)
	return cmd
}

// sync drops per-turn state once the index has moved.
func (c *ConversationScreen) sync() {
	idx := c.sess.State().Index
	if idx == c.shown {
		return
	}
	c.shown = idx
	c.mediaSel = 0
	c.detail = ""
	if c.mode == modeQuiz {
		c.mode = modeRead
	}
}

func (c *ConversationScreen) setStatus(s string) {
	c.status, c.isError = s, false
}

func (c *ConversationScreen) setError(s string) {
	c.status, c.isError = s, true
}
