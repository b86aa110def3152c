// Package session ties the dialogue index, navigation, autoplay, statistics,
// notes and question history of one learner together. Session is the only
// writer of that state and mirrors every mutation into a progress.Store.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/autoplay"
	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/navigation"
	"github.com/abhisek/coursewalk/internal/notes"
	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/qa"
	"github.com/abhisek/coursewalk/internal/stats"
)

// ErrNotFound is returned for unknown note ids, turn indices, media
// offsets and section/subsection pairs. Nothing is changed when it is
// returned.
var ErrNotFound = errors.New("not found")

// DefaultAskTimeout bounds a single question to the AI collaborator.
const DefaultAskTimeout = 60 * time.Second

// Options configures Open. The zero value is usable.
type Options struct {
	Navigation navigation.Config
	Autoplay   autoplay.Settings

	// Window is the number of preceding turns sent as question context.
	Window int

	// Asker answers questions. Nil disables Ask.
	Asker qa.Asker

	AskTimeout time.Duration
	Logger     *zap.Logger

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Session is one learner's pass through a course.
type Session struct {
	course *course.Course
	index  *course.Index
	store  *progress.Store
	logger *zap.Logger
	now    func() time.Time

	coord     *navigation.Coordinator
	nav       *navigation.Controller
	scheduler *autoplay.Scheduler
	questions *qa.Service
	timeout   time.Duration

	mu       sync.Mutex
	agg      *stats.Aggregator
	notes    *notes.Manager
	history  *qa.History
	answered map[string]QuizOutcome
	previous *progress.Summary
}

// Open loads the persisted state for c from st and shows the resumed turn.
// Keys that are missing or malformed start from their defaults.
func Open(ctx context.Context, c *course.Course, st *progress.Store, opts Options) (*Session, error) {
	if c == nil {
		return nil, errors.New("open session: nil course")
	}
	if st == nil {
		return nil, errors.New("open session: nil progress store")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Navigation.Clock == nil {
		opts.Navigation.Clock = now
	}
	if opts.Window <= 0 {
		opts.Window = qa.DefaultWindow
	}
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = DefaultAskTimeout
	}

	idx := course.NewIndex(c)
	snap := st.Load(ctx, idx.Len())

	coord := navigation.NewCoordinator(idx.Len(), navigation.State{Index: snap.Index})
	s := &Session{
		course:    c,
		index:     idx,
		store:     st,
		logger:    logger.Named("session"),
		now:       now,
		coord:     coord,
		nav:       navigation.NewController(coord, opts.Navigation),
		scheduler: autoplay.New(coord, opts.Autoplay),
		timeout:   opts.AskTimeout,
		agg:       stats.NewAggregator(snap.Stats),
		notes:     notes.NewManager(snap.Notes),
		history:   qa.NewHistory(snap.QA),
		answered:  make(map[string]QuizOutcome),
		previous:  snap.Summary,
	}
	if opts.Asker != nil {
		s.questions = qa.NewService(opts.Asker, idx, opts.Window)
	}

	s.logger.Info("session opened",
		zap.String("prefix", st.Prefix()),
		zap.Int("turns", idx.Len()),
		zap.Int("index", snap.Index),
		zap.Int("notes", len(snap.Notes)),
		zap.Int("questions", len(snap.QA)))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(ctx, navigation.Transition{From: snap.Index, To: coord.State().Index}, true)
	return s, nil
}

// Course returns the course being studied.
func (s *Session) Course() *course.Course {
	return s.course
}

// Index returns the flattened dialogue.
func (s *Session) Index() *course.Index {
	return s.index
}

// State returns the current position and autoplay state.
func (s *Session) State() navigation.State {
	return s.coord.State()
}

// Current returns the turn at the current position. It reports false for
// an empty course.
func (s *Session) Current() (course.Turn, bool) {
	return s.index.At(s.coord.State().Index)
}

// Previous returns the summary saved by the last session, or nil on a
// first visit.
func (s *Session) Previous() *progress.Summary {
	return s.previous
}

// settle records the visit for the turn a transition landed on and
// persists index, stats and summary when anything changed or force is set.
// s.mu must be held.
func (s *Session) settle(ctx context.Context, t navigation.Transition, force bool) {
	turn, ok := s.index.At(t.To)
	if !ok {
		return
	}
	grew := s.agg.RecordVisit(turn)
	if t.Moved() {
		clear(s.answered)
	}
	if !grew && !t.Moved() && !force {
		return
	}

	if t.Moved() {
		s.logger.Debug("moved",
			zap.Int("from", t.From),
			zap.Int("to", t.To),
			zap.Stringer("source", t.Source),
			zap.Bool("autoplay", t.Autoplay))
	}

	s.persist("index", s.store.SaveIndex(ctx, t.To))
	s.persist("stats", s.store.SaveStats(ctx, s.agg.Stats()))
	s.persist("summary", s.store.SaveSummary(ctx, s.summary(t.To)))
}

// persist logs a failed write. In-memory state stays authoritative; the
// next successful write of the same key catches up.
func (s *Session) persist(what string, err error) {
	if err != nil {
		s.logger.Warn("persist failed", zap.String("key", what), zap.Error(err))
	}
}

// ResetProgress clears the persisted index, stats and summary, resets the
// in-memory statistics, stops autoplay and returns to the first turn.
// Notes and question history are kept.
func (s *Session) ResetProgress(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearProgress(ctx); err != nil {
		return err
	}
	s.scheduler.Stop()
	s.agg.Reset()
	from := s.coord.State().Index
	if s.index.Len() > 0 {
		s.coord.JumpTo(0, navigation.SourceReset)
	}
	clear(s.answered)
	s.logger.Info("progress reset", zap.Int("from", from))
	s.settle(ctx, navigation.Transition{From: from, To: s.coord.State().Index, Source: navigation.SourceReset}, true)
	return nil
}
