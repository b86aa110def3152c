package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/navigation"
	"github.com/abhisek/coursewalk/internal/notes"
	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/qa"
	"github.com/abhisek/coursewalk/internal/store"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	course *course.Course
	medium *store.MemoryMedium
	clock  *testClock
	asker  qa.Asker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := course.Load("../course/testdata/course.json")
	if err != nil {
		t.Fatalf("load course: %v", err)
	}
	return &fixture{
		course: c,
		medium: store.NewMemoryMedium(),
		clock:  &testClock{t: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)},
		asker: qa.AskerFunc(func(_ context.Context, req qa.Request) qa.Result {
			return qa.Result{Success: true, Answer: "answer to " + req.Question}
		}),
	}
}

func (f *fixture) store(t *testing.T) *progress.Store {
	return progress.New(f.medium, f.course.Config.StoragePrefix, zaptest.NewLogger(t))
}

func (f *fixture) open(t *testing.T) *Session {
	t.Helper()
	s, err := Open(context.Background(), f.course, f.store(t), Options{
		Asker:  f.asker,
		Logger: zaptest.NewLogger(t),
		Now:    f.clock.Now,
	})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

// must stops the test on an unexpected error.
func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("err = %v, want %v", err, target)
	}
}

func TestOpen_FreshStart(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	if st := s.State(); st.Index != 0 || st.Autoplay {
		t.Errorf("State() = %+v, want index 0 without autoplay", st)
	}
	if p := s.Previous(); p != nil {
		t.Errorf("Previous() = %+v, want nil on a first visit", p)
	}
	if got := s.Stats().MessagesViewed.Sorted(); !slices.Equal(got, []int{0}) {
		t.Errorf("messagesViewed = %v, want [0]", got)
	}

	snap := f.store(t).Load(context.Background(), 5)
	if snap.Summary == nil {
		t.Fatal("opening should persist a summary")
	}
	if snap.Summary.TotalTurns != 5 || snap.Summary.CompletionPercentage != 20 {
		t.Errorf("summary = %+v, want 5 turns at 20%%", *snap.Summary)
	}
}

func TestNavigationIsPersisted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)

	s.Next(ctx)
	s.Next(ctx)
	s.Prev(ctx)
	if i := s.State().Index; i != 1 {
		t.Errorf("index = %d, want 1", i)
	}

	st := s.Stats()
	if got := st.MessagesViewed.Sorted(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("messagesViewed = %v", got)
	}
	if got := st.SectionsVisited.Sorted(); !slices.Equal(got, []string{"1"}) {
		t.Errorf("sectionsVisited = %v", got)
	}
	if got := st.SubsectionsVisited.Sorted(); !slices.Equal(got, []string{"1:1", "1:2"}) {
		t.Errorf("subsectionsVisited = %v", got)
	}

	reopened := f.open(t)
	if i := reopened.State().Index; i != 1 {
		t.Errorf("reopened at %d, want 1", i)
	}
	if !reopened.Stats().Equal(st) {
		t.Errorf("reopened stats = %+v, want %+v", reopened.Stats(), st)
	}
	prev := reopened.Previous()
	if prev == nil {
		t.Fatal("reopened session has no previous summary")
	}
	if prev.CurrentTurn != 1 || prev.CompletionPercentage != 60 {
		t.Errorf("previous = %+v, want turn 1 at 60%%", *prev)
	}
}

func TestWheelScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)
	_, err := s.JumpTo(ctx, 2)
	must(t, err)
	if _, started := s.StartAutoplay(); !started {
		t.Fatal("autoplay did not start")
	}

	at := navigation.Point{X: 1, Y: 1}
	steps := []struct {
		wait    time.Duration
		wantOK  bool
		wantIdx int
	}{
		{0, true, 3},
		{50 * time.Millisecond, false, 3},
		{300 * time.Millisecond, true, 4},
		{300 * time.Millisecond, true, 4},
	}
	for i, st := range steps {
		f.clock.Advance(st.wait)
		tr, accepted := s.Wheel(ctx, 100, at)
		if accepted != st.wantOK {
			t.Fatalf("step %d: accepted = %v, want %v", i, accepted, st.wantOK)
		}
		if accepted && tr.To != st.wantIdx {
			t.Errorf("step %d: moved to %d, want %d", i, tr.To, st.wantIdx)
		}
		if s.State().Autoplay {
			t.Errorf("step %d: the wheel should have stopped autoplay", i)
		}
	}
}

func TestSidebarRegionIgnored(t *testing.T) {
	ctx := context.Background()
	s := newFixture(t).open(t)
	s.SetSidebar(navigation.Rect{X: 50, W: 30, H: 24})

	if _, accepted := s.Wheel(ctx, 1, navigation.Point{X: 60, Y: 3}); accepted {
		t.Error("wheel over the sidebar moved the conversation")
	}
	if _, accepted := s.Key(ctx, navigation.KeyDown, navigation.TargetSidebar, navigation.Modifiers{}); accepted {
		t.Error("key aimed at the sidebar moved the conversation")
	}
	if i := s.State().Index; i != 0 {
		t.Errorf("index = %d, want 0", i)
	}

	tr, accepted := s.Key(ctx, navigation.KeyDown, navigation.TargetMain, navigation.Modifiers{})
	if !accepted || tr.To != 1 {
		t.Errorf("Key(main) = %+v, %v; want a step to 1", tr, accepted)
	}
}

func TestAutoplay(t *testing.T) {
	ctx := context.Background()
	s := newFixture(t).open(t)

	tick, started := s.StartAutoplay()
	if !started {
		t.Fatal("autoplay did not start")
	}
	for tick.Armed() {
		_, next, fired := s.AutoplayTick(ctx, tick.Gen)
		if !fired {
			t.Fatalf("tick %d did not fire", tick.Gen)
		}
		tick = next
	}
	if st := s.State(); st.Index != 4 || st.Autoplay {
		t.Errorf("State() = %+v, want the last turn with autoplay off", st)
	}
	if n := s.Stats().MessagesViewed.Len(); n != 5 {
		t.Errorf("viewed %d messages, want 5", n)
	}
	if pct := s.Summary().CompletionPercentage; pct != 100 {
		t.Errorf("completion = %d%%, want 100%%", pct)
	}
}

func TestAutoplay_ManualStepWins(t *testing.T) {
	ctx := context.Background()
	s := newFixture(t).open(t)

	tick, _ := s.StartAutoplay()
	s.Next(ctx)
	if _, _, fired := s.AutoplayTick(ctx, tick.Gen); fired {
		t.Error("tick fired after a manual step")
	}
	if i := s.State().Index; i != 1 {
		t.Errorf("index = %d, want 1", i)
	}

	d, next := s.SetAutoplaySpeed(time.Second)
	if d != time.Second {
		t.Errorf("speed = %v, want 1s", d)
	}
	if next.Armed() {
		t.Error("changing speed while stopped should not arm a tick")
	}
}

func TestLocate(t *testing.T) {
	ctx := context.Background()
	s := newFixture(t).open(t)
	s.StartAutoplay()

	tr, err := s.Locate(ctx, "units", "1", 1)
	must(t, err)
	if tr.To != 4 {
		t.Errorf("located turn %d, want 4", tr.To)
	}
	if s.State().Autoplay {
		t.Error("locate is a manual transition and stops autoplay")
	}

	_, err = s.Locate(ctx, "units", "9", 0)
	wantErr(t, err, ErrNotFound)
	_, err = s.Locate(ctx, "1", "1", 5)
	wantErr(t, err, ErrNotFound)
	if i := s.State().Index; i != 4 {
		t.Errorf("failed locate moved to %d", i)
	}

	_, err = s.JumpTo(ctx, 42)
	wantErr(t, err, ErrNotFound)
}

func TestOpenMedia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)

	_, err := s.OpenMedia(ctx, course.KindImage, 0)
	wantErr(t, err, ErrNotFound)

	s.Next(ctx)
	item, err := s.OpenMedia(ctx, course.KindImage, 0)
	must(t, err)
	if img, isImage := item.(*course.Image); !isImage || img.Src != "img/matter.png" {
		t.Errorf("opened %+v, want img/matter.png", item)
	}
	_, err = s.OpenMedia(ctx, course.KindImage, 0)
	must(t, err)

	_, err = s.JumpTo(ctx, 3)
	must(t, err)
	_, err = s.OpenMedia(ctx, course.KindVideo, 0)
	must(t, err)

	st := f.store(t).Load(ctx, 5).Stats
	if got := st.ImagesViewed.Sorted(); !slices.Equal(got, []string{"1:image:0"}) {
		t.Errorf("imagesViewed = %v", got)
	}
	if got := st.VideosWatched.Sorted(); !slices.Equal(got, []string{"3:video:0"}) {
		t.Errorf("videosWatched = %v", got)
	}
}

func TestAnswerSidebarQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)
	s.Next(ctx)

	out, err := s.AnswerSidebarQuiz(ctx, 0, 0)
	must(t, err)
	if out.Correct || out.CorrectAnswer != 1 || out.Explanation != "Air has mass." {
		t.Errorf("wrong answer outcome = %+v", out)
	}

	again, err := s.AnswerSidebarQuiz(ctx, 0, 1)
	must(t, err)
	if !again.Repeat || again.Correct {
		t.Errorf("second answer = %+v; the first answer stands for this visit", again)
	}

	st := s.Stats()
	if st.TotalQuizAttempts != 1 || st.CorrectAnswers != 0 {
		t.Errorf("attempts = %d, correct = %d; want 1, 0", st.TotalQuizAttempts, st.CorrectAnswers)
	}

	s.Next(ctx)
	s.Prev(ctx)
	if _, answered := s.QuizAnswer(0); answered {
		t.Error("leaving the turn resets the answer")
	}

	out, err = s.AnswerSidebarQuiz(ctx, 0, 1)
	must(t, err)
	if !out.Correct {
		t.Errorf("right answer outcome = %+v", out)
	}

	st = f.store(t).Load(ctx, 5).Stats
	if st.TotalQuizAttempts != 2 || st.CorrectAnswers != 1 {
		t.Errorf("persisted attempts = %d, correct = %d; want 2, 1", st.TotalQuizAttempts, st.CorrectAnswers)
	}
	if got := st.QuizzesCompleted.Sorted(); !slices.Equal(got, []string{"1:quiz:0"}) {
		t.Errorf("quizzesCompleted = %v", got)
	}

	_, err = s.AnswerSidebarQuiz(ctx, 0, 7)
	wantErr(t, err, ErrNotFound)
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)
	_, err := s.JumpTo(ctx, 3)
	must(t, err)

	n, err := s.SaveNote(ctx, "SI", "seven base units")
	must(t, err)
	if n.SectionTitle != "Units of Measurement" || n.TurnIndex != 3 {
		t.Errorf("note anchored at %q turn %d", n.SectionTitle, n.TurnIndex)
	}

	_, err = s.SaveNote(ctx, " ", "x")
	var verr *notes.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("blank title: err = %v, want *notes.ValidationError", err)
	}

	_, err = s.BeginEditNote(n.ID)
	must(t, err)
	s.Prev(ctx)
	edited, err := s.SaveNote(ctx, "SI units", "seven")
	must(t, err)
	if edited.ID != n.ID || edited.TurnIndex != 2 {
		t.Errorf("edited = %+v, want %s re-anchored at turn 2", edited, n.ID)
	}
	if _, editing := s.EditingNote(); editing {
		t.Error("saving should end the edit")
	}

	_, err = s.BeginEditNote("missing")
	wantErr(t, err, ErrNotFound)

	persisted := f.store(t).Load(ctx, 5).Notes
	if len(persisted) != 1 || persisted[0].Title != "SI units" {
		t.Fatalf("persisted notes = %+v", persisted)
	}

	deleted, err := s.DeleteNote(ctx, n.ID, func(string) bool { return false })
	must(t, err)
	if deleted || len(s.Notes()) != 1 {
		t.Error("declined delete removed the note")
	}

	deleted, err = s.DeleteNote(ctx, n.ID, notes.Yes)
	must(t, err)
	if !deleted {
		t.Error("confirmed delete reported false")
	}
	if left := f.store(t).Load(ctx, 5).Notes; len(left) != 0 {
		t.Errorf("persisted notes after delete = %+v", left)
	}

	_, err = s.DeleteNote(ctx, n.ID, notes.Yes)
	wantErr(t, err, ErrNotFound)
}

func TestAsk(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)
	s.Next(ctx)

	r, err := s.Ask(ctx, "  what is matter? ")
	must(t, err)
	if r.Answer != "answer to what is matter?" {
		t.Errorf("Answer = %q", r.Answer)
	}
	if r.ContextIndex != 1 || r.SubsectionTitle != "Chemistry Around Us" {
		t.Errorf("response anchored at %d in %q", r.ContextIndex, r.SubsectionTitle)
	}

	_, err = s.Ask(ctx, "   ")
	wantErr(t, err, qa.ErrEmptyQuestion)

	_, err = s.AskAbout(ctx, "why?", 99)
	wantErr(t, err, ErrNotFound)

	if n := len(s.History()); n != 1 {
		t.Errorf("history has %d entries, want 1", n)
	}
	if n := len(s.HistoryFor(1)); n != 1 {
		t.Errorf("history for turn 1 has %d entries, want 1", n)
	}
	if n := len(s.HistoryFor(0)); n != 0 {
		t.Errorf("history for turn 0 has %d entries, want 0", n)
	}
	if n := len(f.store(t).Load(ctx, 5).QA); n != 1 {
		t.Errorf("persisted %d responses, want 1", n)
	}
}

func TestAsk_FailureIsKept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.asker = qa.AskerFunc(func(context.Context, qa.Request) qa.Result {
		return qa.Result{Error: "rate limited"}
	})
	s := f.open(t)

	r, err := s.Ask(ctx, "why?")
	must(t, err)
	if !r.IsError || !strings.Contains(r.Answer, "rate limited") {
		t.Errorf("response = %+v, want a kept error", r)
	}
	if n := len(f.store(t).Load(ctx, 5).QA); n != 1 {
		t.Errorf("persisted %d responses, want 1", n)
	}
}

func TestAsk_NoAsker(t *testing.T) {
	f := newFixture(t)
	s, err := Open(context.Background(), f.course, f.store(t), Options{})
	must(t, err)
	if s.CanAsk() {
		t.Error("CanAsk() = true without an asker")
	}
	_, err = s.Ask(context.Background(), "why?")
	wantErr(t, err, ErrNoAsker)
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)

	_, err := s.JumpTo(ctx, 3)
	must(t, err)
	_, err = s.OpenMedia(ctx, course.KindVideo, 0)
	must(t, err)
	_, err = s.SaveNote(ctx, "keep", "me")
	must(t, err)
	_, err = s.Ask(ctx, "keep this too")
	must(t, err)
	s.StartAutoplay()

	must(t, s.ResetProgress(ctx))
	if st := s.State(); st.Index != 0 || st.Autoplay {
		t.Errorf("State() = %+v, want index 0 without autoplay", st)
	}
	if got := s.Stats().MessagesViewed.Sorted(); !slices.Equal(got, []int{0}) {
		t.Errorf("messagesViewed = %v, want [0]", got)
	}
	if n := s.Stats().VideosWatched.Len(); n != 0 {
		t.Errorf("videosWatched = %d, want 0", n)
	}

	snap := f.store(t).Load(ctx, 5)
	if snap.Index != 0 {
		t.Errorf("persisted index = %d, want 0", snap.Index)
	}
	if len(snap.Notes) != 1 || len(snap.QA) != 1 {
		t.Errorf("reset dropped notes or history: %d notes, %d responses", len(snap.Notes), len(snap.QA))
	}
}

func TestOpen_EmptyCourse(t *testing.T) {
	s, err := Open(context.Background(), &course.Course{}, progress.New(store.NewMemoryMedium(), "empty", nil), Options{})
	must(t, err)
	if _, found := s.Current(); found {
		t.Error("an empty course has no current turn")
	}
	if to := s.Next(context.Background()).To; to != 0 {
		t.Errorf("Next() moved to %d", to)
	}
	if _, started := s.StartAutoplay(); started {
		t.Error("autoplay started on an empty course")
	}
}

func TestWelcome(t *testing.T) {
	tests := []struct {
		name string
		in   *progress.Summary
		want string
	}{
		{"first visit", nil, ""},
		{"ended on first turn", &progress.Summary{CurrentTurn: 0, TotalTurns: 5}, ""},
		{"returning", &progress.Summary{CurrentTurn: 2, TotalTurns: 5, CompletionPercentage: 60},
			"Welcome back! Resuming from message 3 of 5 (60% complete)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Welcome(tt.in); got != tt.want {
				t.Errorf("Welcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)

	_, err := s.Ask(ctx, "what is matter?")
	must(t, err)
	if n := len(s.History()); n != 1 {
		t.Fatalf("history has %d entries, want 1", n)
	}

	must(t, s.ClearHistory(ctx))
	if n := len(s.History()); n != 0 {
		t.Errorf("history has %d entries after clear", n)
	}
	if n := len(f.store(t).Load(ctx, 5).QA); n != 0 {
		t.Errorf("persisted %d responses after clear", n)
	}
}

func TestExportNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t)

	_, err := s.CreateNote(ctx, "Matter", "Anything with mass and volume.")
	must(t, err)

	path := filepath.Join(t.TempDir(), "notes.txt")
	must(t, s.ExportNotes(path))

	data, err := os.ReadFile(path)
	must(t, err)
	out := string(data)
	for _, want := range []string{"Some Basic Concepts of Chemistry - Notes", "Matter", "Anything with mass and volume."} {
		if !strings.Contains(out, want) {
			t.Errorf("export lacks %q", want)
		}
	}
	if p := s.ExportPath(); p != "chem11_ch1-notes.txt" {
		t.Errorf("ExportPath() = %q", p)
	}
}

func TestExportNotes_BadPath(t *testing.T) {
	s := newFixture(t).open(t)
	err := s.ExportNotes(filepath.Join(t.TempDir(), "missing", "notes.txt"))
	if err == nil || !strings.Contains(err.Error(), "export notes") {
		t.Errorf("err = %v, want an export notes error", err)
	}
}
