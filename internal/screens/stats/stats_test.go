package stats

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/session"
	"github.com/abhisek/coursewalk/internal/store"
)

func openSession(t *testing.T) *session.Session {
	t.Helper()
	c, err := course.Load("../../course/testdata/course.json")
	if err != nil {
		t.Fatalf("load course: %v", err)
	}
	st := progress.New(store.NewMemoryMedium(), c.Config.StoragePrefix, zaptest.NewLogger(t))
	sess, err := session.Open(context.Background(), c, st, session.Options{Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return sess
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestView(t *testing.T) {
	sess := openSession(t)
	if _, err := sess.JumpTo(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	s := New(context.Background(), sess)

	view := s.View(100, 30)
	for _, want := range []string{"Messages", "2/5", "Subsections", "No quiz answers yet."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	sess := openSession(t)
	sess.JumpTo(ctx, 3)
	s := New(ctx, sess)

	s.Update(key('r'))
	if !s.Modal() {
		t.Fatal("reset should open a dialog")
	}
	s.Update(key('n'))
	if s.Modal() {
		t.Fatal("n should close the dialog")
	}
	if got := sess.State().Index; got != 3 {
		t.Fatalf("declined reset moved to %d", got)
	}

	s.Update(key('r'))
	s.Update(key('y'))
	if got := sess.State().Index; got != 0 {
		t.Errorf("index after reset = %d, want 0", got)
	}
	if s.report.Messages.Done != 1 {
		t.Errorf("messages done after reset = %d, want 1", s.report.Messages.Done)
	}
	if s.isError {
		t.Errorf("unexpected error: %s", s.status)
	}
}
