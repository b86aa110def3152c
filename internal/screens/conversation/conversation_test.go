package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/qa"
	"github.com/abhisek/coursewalk/internal/router"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/store"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScreen(t *testing.T) (*ConversationScreen, *session.Session, *testClock) {
	t.Helper()
	c, err := course.Load("../../course/testdata/course.json")
	if err != nil {
		t.Fatalf("load course: %v", err)
	}
	clock := &testClock{t: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	st := progress.New(store.NewMemoryMedium(), c.Config.StoragePrefix, zaptest.NewLogger(t))
	sess, err := session.Open(context.Background(), c, st, session.Options{
		Logger: zaptest.NewLogger(t),
		Now:    clock.Now,
		Asker: qa.AskerFunc(func(_ context.Context, req qa.Request) qa.Result {
			return qa.Result{Success: true, Answer: "because " + req.Question}
		}),
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	s := New(context.Background(), sess)
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return s, sess, clock
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *ConversationScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func TestArrowKeysMove(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	if got := sess.State().Index; got != 2 {
		t.Fatalf("index after two downs = %d, want 2", got)
	}
	s.Update(specialKey(tea.KeyUp))
	if got := sess.State().Index; got != 1 {
		t.Errorf("index after up = %d, want 1", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModCtrl})
	if got := sess.State().Index; got != 1 {
		t.Errorf("ctrl+down moved to %d, want 1", got)
	}
}

func TestArrowKeysIgnoredInSidebar(t *testing.T) {
	s, sess, _ := newTestScreen(t)
	s.Update(specialKey(tea.KeyDown))

	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyDown))
	if got := sess.State().Index; got != 1 {
		t.Errorf("index = %d, want 1 while the sidebar has focus", got)
	}
	if s.mediaSel != 1 {
		t.Errorf("mediaSel = %d, want 1", s.mediaSel)
	}
}

func TestWheel(t *testing.T) {
	s, sess, clock := newTestScreen(t)

	s.Update(tea.MouseWheelMsg{X: 10, Y: 10, Button: tea.MouseWheelDown})
	if got := sess.State().Index; got != 1 {
		t.Fatalf("index after wheel down = %d, want 1", got)
	}

	// Within the cooldown.
	s.Update(tea.MouseWheelMsg{X: 10, Y: 10, Button: tea.MouseWheelDown})
	if got := sess.State().Index; got != 1 {
		t.Errorf("index = %d, want 1 inside the cooldown", got)
	}

	clock.Advance(time.Second)
	s.Update(tea.MouseWheelMsg{X: 90, Y: 10, Button: tea.MouseWheelDown})
	if got := sess.State().Index; got != 1 {
		t.Errorf("wheel over the sidebar moved to %d", got)
	}

	s.Update(tea.MouseWheelMsg{X: 10, Y: 10, Button: tea.MouseWheelUp})
	if got := sess.State().Index; got != 0 {
		t.Errorf("index after wheel up = %d, want 0", got)
	}
}

func TestSwipe(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	s.Update(tea.MouseClickMsg{X: 10, Y: 20, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: 10, Y: 10, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: 10, Y: 2, Button: tea.MouseLeft})
	s.Update(tea.MouseReleaseMsg{X: 10, Y: 2, Button: tea.MouseLeft})

	if got := sess.State().Index; got != 1 {
		t.Errorf("index after swipe up = %d, want 1 (one step per gesture)", got)
	}
}

func TestAutoplayTick(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	_, cmd := s.Update(keyPress(' '))
	if !sess.State().Autoplay {
		t.Fatal("space should start autoplay")
	}
	if cmd == nil {
		t.Fatal("starting autoplay should schedule a tick")
	}

	// Restart to learn the current generation.
	sess.StopAutoplay()
	tick, ok := sess.StartAutoplay()
	if !ok {
		t.Fatal("autoplay should restart")
	}

	_, cmd = s.Update(autoplayTickMsg{Gen: tick.Gen})
	if got := sess.State().Index; got != 1 {
		t.Fatalf("index after tick = %d, want 1", got)
	}
	if cmd == nil {
		t.Error("a live tick should schedule the next one")
	}

	_, cmd = s.Update(autoplayTickMsg{Gen: tick.Gen - 1})
	if got := sess.State().Index; got != 1 {
		t.Errorf("stale tick moved to %d", got)
	}
	if cmd != nil {
		t.Error("a stale tick should not reschedule")
	}
}

func TestPushPausesAutoplay(t *testing.T) {
	s, sess, _ := newTestScreen(t)
	s.Update(keyPress(' '))

	_, cmd := s.Update(keyPress('t'))
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}

	r := router.New(s)
	r.Update(msg)
	if sess.State().Autoplay {
		t.Error("covering the conversation should pause autoplay")
	}
	if !strings.Contains(s.status, "paused") {
		t.Errorf("status = %q", s.status)
	}
}

func TestSidebarQuiz(t *testing.T) {
	s, sess, _ := newTestScreen(t)
	s.Update(specialKey(tea.KeyDown))

	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	if s.mode != modeQuiz {
		t.Fatalf("mode = %v, want quiz", s.mode)
	}
	if !s.Modal() {
		t.Error("quiz should keep Esc")
	}

	s.Update(keyPress('2'))
	if !s.quiz.Revealed() {
		t.Fatal("answer should be revealed")
	}
	if s.isError || s.status != "Correct!" {
		t.Errorf("status = %q (error %v), want Correct!", s.status, s.isError)
	}
	if r := sess.Report(); r.Quizzes.Done != 1 || r.Correct != 1 {
		t.Errorf("report = %+v, want one correct quiz", r.Quizzes)
	}
	if !strings.Contains(s.View(100, 30), "Air has mass.") {
		t.Error("explanation should be shown")
	}

	s.Update(keyPress('x'))
	if s.mode != modeRead {
		t.Error("any key should close a revealed quiz")
	}
}

func TestOpenImage(t *testing.T) {
	s, sess, _ := newTestScreen(t)
	s.Update(specialKey(tea.KeyDown))

	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyEnter))
	if !strings.Contains(s.detail, "States of matter") {
		t.Errorf("detail = %q", s.detail)
	}
	if got := sess.Report().Images.Done; got != 1 {
		t.Errorf("images viewed = %d, want 1", got)
	}
}

func TestNoteEditor(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	s.Update(keyPress('n'))
	if s.mode != modeNote {
		t.Fatalf("mode = %v, want note", s.mode)
	}

	s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if !s.isError || !strings.Contains(s.status, "cannot be empty") {
		t.Errorf("empty note status = %q", s.status)
	}
	if s.mode != modeNote {
		t.Error("editor should stay open after a validation error")
	}

	typeText(s, "Matter")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "has mass")
	s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})

	if s.mode != modeRead {
		t.Fatalf("mode = %v after save, want read", s.mode)
	}
	ns := sess.Notes()
	if len(ns) != 1 {
		t.Fatalf("got %d notes, want 1", len(ns))
	}
	if ns[0].Title != "Matter" || ns[0].Content != "has mass" {
		t.Errorf("note = %q / %q", ns[0].Title, ns[0].Content)
	}
	if ns[0].TurnIndex != 0 {
		t.Errorf("note anchored at %d, want 0", ns[0].TurnIndex)
	}
}

func findAnswer(cmd tea.Cmd) (answerMsg, bool) {
	if cmd == nil {
		return answerMsg{}, false
	}
	switch msg := cmd().(type) {
	case answerMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if a, ok := findAnswer(c); ok {
				return a, true
			}
		}
	}
	return answerMsg{}, false
}

func TestAsk(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	s.Update(keyPress('a'))
	if s.mode != modeAsk {
		t.Fatalf("mode = %v, want ask", s.mode)
	}
	typeText(s, "why")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if !s.asking {
		t.Fatal("screen should be waiting for the answer")
	}

	msg, ok := findAnswer(cmd)
	if !ok {
		t.Fatal("enter should start the question")
	}
	s.Update(msg)

	if s.asking {
		t.Error("asking should end with the answer")
	}
	hist := sess.HistoryFor(0)
	if len(hist) != 1 || hist[0].Answer != "because why" {
		t.Fatalf("history = %+v", hist)
	}
	if !strings.Contains(s.View(100, 30), "because why") {
		t.Error("answer should be rendered")
	}
}

func TestJumpKeys(t *testing.T) {
	s, sess, _ := newTestScreen(t)

	s.Update(keyPress('G'))
	if got := sess.State().Index; got != 4 {
		t.Errorf("G moved to %d, want 4", got)
	}
	s.Update(keyPress('g'))
	if got := sess.State().Index; got != 0 {
		t.Errorf("g moved to %d, want 0", got)
	}
}

func TestEmptyCourseView(t *testing.T) {
	c := &course.Course{Config: course.Config{Title: "Empty", StoragePrefix: "empty"}}
	st := progress.New(store.NewMemoryMedium(), "empty", zaptest.NewLogger(t))
	sess, err := session.Open(context.Background(), c, st, session.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New(context.Background(), sess)
	if !strings.Contains(s.View(100, 30), "no messages yet") {
		t.Error("empty course should say so")
	}
	s.Update(specialKey(tea.KeyDown))
	s.Update(keyPress(' '))
	if sess.State().Autoplay {
		t.Error("autoplay should not start on an empty course")
	}
}

func TestResizeRightAfterNew(t *testing.T) {
	c, err := course.Load("../../course/testdata/course.json")
	if err != nil {
		t.Fatalf("load course: %v", err)
	}
	st := progress.New(store.NewMemoryMedium(), c.Config.StoragePrefix, zaptest.NewLogger(t))
	sess, err := session.Open(context.Background(), c, st, session.Options{Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	s := New(context.Background(), sess)
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	s.Update(tea.WindowSizeMsg{Width: 12, Height: 4})
	if s.View(12, 4) == "" {
		t.Error("empty view after resize")
	}

	s.Update(keyPress('n'))
	if s.mode != modeNote {
		t.Fatalf("mode = %v, want note", s.mode)
	}
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(s.View(120, 40), "New note") {
		t.Error("editor should survive a resize while open")
	}
}
