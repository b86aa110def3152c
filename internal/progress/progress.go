// Package progress persists a learner's session under namespaced keys of a
// flat key-value medium. Each value group is written on its own key so a
// failed or partial write only ever affects that group.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/notes"
	"github.com/abhisek/coursewalk/internal/qa"
	"github.com/abhisek/coursewalk/internal/stats"
	"github.com/abhisek/coursewalk/internal/store"
)

// Key suffixes appended to the storage prefix.
const (
	SuffixIndex   = "_current_index"
	SuffixStats   = "_stats"
	SuffixNotes   = "_notes"
	SuffixQA      = "_ai_responses"
	SuffixSummary = "_progress"
)

// Summary is the derived progress record shown on the welcome line.
// CurrentTurn is zero-based.
type Summary struct {
	LastAccessed         time.Time `json:"lastAccessed"`
	CurrentTurn          int       `json:"currentMessage"`
	TotalTurns           int       `json:"totalMessages"`
	CompletionPercentage int       `json:"completionPercentage"`
}

// Snapshot is everything Load recovers from the medium.
type Snapshot struct {
	Index   int
	Stats   *stats.Stats
	Notes   []notes.Note
	QA      []qa.Response
	Summary *Summary
}

// Store is a typed view over a Medium for one storage prefix.
type Store struct {
	medium store.Medium
	prefix string
	logger *zap.Logger
}

// New returns a Store writing keys under prefix.
func New(m store.Medium, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{medium: m, prefix: prefix, logger: logger.Named("progress")}
}

// Key returns the full medium key for suffix.
func (s *Store) Key(suffix string) string {
	return s.prefix + suffix
}

// Prefix returns the storage prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) save(ctx context.Context, suffix string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", suffix, err)
	}
	if err := s.medium.Set(ctx, s.Key(suffix), string(data)); err != nil {
		return fmt.Errorf("save %s: %w", suffix, err)
	}
	return nil
}

// SaveIndex persists the current turn index.
func (s *Store) SaveIndex(ctx context.Context, index int) error {
	return s.save(ctx, SuffixIndex, index)
}

// SaveStats persists st with its sets encoded as sorted arrays.
func (s *Store) SaveStats(ctx context.Context, st *stats.Stats) error {
	return s.save(ctx, SuffixStats, st)
}

// SaveNotes persists the full notes list.
func (s *Store) SaveNotes(ctx context.Context, ns []notes.Note) error {
	if ns == nil {
		ns = []notes.Note{}
	}
	return s.save(ctx, SuffixNotes, ns)
}

// SaveQA persists the question and answer history.
func (s *Store) SaveQA(ctx context.Context, rs []qa.Response) error {
	if rs == nil {
		rs = []qa.Response{}
	}
	return s.save(ctx, SuffixQA, rs)
}

// SaveSummary persists the derived progress summary.
func (s *Store) SaveSummary(ctx context.Context, sum Summary) error {
	return s.save(ctx, SuffixSummary, sum)
}

// load decodes one key into v. It reports false, leaving v untouched, when
// the key is absent, unreadable or malformed.
func (s *Store) load(ctx context.Context, suffix string, v any) bool {
	key := s.Key(suffix)
	raw, ok, err := s.medium.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read failed, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("malformed value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Load reads every key independently. A missing or malformed key falls
// back to its default (index 0, empty stats, no notes, no history) without
// affecting the others. An index outside [0, totalTurns) is reset to 0.
func (s *Store) Load(ctx context.Context, totalTurns int) Snapshot {
	snap := Snapshot{Index: 0, Stats: stats.New(), Notes: []notes.Note{}, QA: []qa.Response{}}

	var idx int
	if s.load(ctx, SuffixIndex, &idx) {
		if idx >= 0 && idx < totalTurns {
			snap.Index = idx
		} else {
			s.logger.Warn("persisted index out of range, using 0",
				zap.Int("index", idx), zap.Int("turns", totalTurns))
		}
	}

	st := stats.New()
	if s.load(ctx, SuffixStats, st) {
		if st.CorrectAnswers < 0 || st.CorrectAnswers > st.TotalQuizAttempts {
			s.logger.Warn("inconsistent quiz counters, using default",
				zap.Int("correct", st.CorrectAnswers), zap.Int("attempts", st.TotalQuizAttempts))
		} else {
			snap.Stats = st
		}
	}

	var ns []notes.Note
	if s.load(ctx, SuffixNotes, &ns) && ns != nil {
		snap.Notes = ns
	}

	var rs []qa.Response
	if s.load(ctx, SuffixQA, &rs) && rs != nil {
		snap.QA = rs
	}

	var sum Summary
	if s.load(ctx, SuffixSummary, &sum) {
		snap.Summary = &sum
	}

	return snap
}

// ClearProgress removes the index, stats and summary keys. Notes and the
// question history are kept.
func (s *Store) ClearProgress(ctx context.Context) error {
	if err := s.medium.Delete(ctx, s.Key(SuffixIndex), s.Key(SuffixStats), s.Key(SuffixSummary)); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// ClearNotes removes the notes key.
func (s *Store) ClearNotes(ctx context.Context) error {
	if err := s.medium.Delete(ctx, s.Key(SuffixNotes)); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	return nil
}

// ClearQA removes the question history key.
func (s *Store) ClearQA(ctx context.Context) error {
	if err := s.medium.Delete(ctx, s.Key(SuffixQA)); err != nil {
		return fmt.Errorf("clear question history: %w", err)
	}
	return nil
}
