package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/quiz"
	"github.com/abhisek/coursewalk/internal/stats"
)

// QuizOutcome is the result of answering a sidebar quiz.
type QuizOutcome struct {
	Selected      int
	Correct       bool
	CorrectAnswer int
	Explanation   string

	// Repeat is set when the quiz was already answered while this turn
	// was on screen. Repeats are not counted again.
	Repeat bool
}

func (s *Session) mediaAt(kind course.MediaKind, offset int) (course.Turn, course.MediaItem, error) {
	turn, ok := s.index.At(s.coord.State().Index)
	if !ok {
		return turn, nil, fmt.Errorf("current turn: %w", ErrNotFound)
	}
	items := turn.MediaOfKind(kind)
	if offset < 0 || offset >= len(items) {
		return turn, nil, fmt.Errorf("%s %d of turn %d: %w", kind, offset, turn.Index, ErrNotFound)
	}
	return turn, items[offset], nil
}

// OpenMedia returns the offset-th sidebar item of kind on the current turn
// and records images and videos as viewed.
func (s *Session) OpenMedia(ctx context.Context, kind course.MediaKind, offset int) (course.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, item, err := s.mediaAt(kind, offset)
	if err != nil {
		return nil, err
	}
	if s.agg.RecordMedia(turn.Index, kind, offset) {
		s.persist("stats", s.store.SaveStats(ctx, s.agg.Stats()))
		s.logger.Debug("media viewed",
			zap.Int("turn", turn.Index),
			zap.String("kind", string(kind)),
			zap.Int("offset", offset))
	}
	return item, nil
}

// AnswerSidebarQuiz scores selected against the offset-th quiz of the
// current turn. Each quiz takes one answer per visit to the turn; further
// answers return the first outcome with Repeat set.
func (s *Session) AnswerSidebarQuiz(ctx context.Context, offset, selected int) (QuizOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, item, err := s.mediaAt(course.KindQuiz, offset)
	if err != nil {
		return QuizOutcome{}, err
	}
	q := item.(*course.Quiz)
	if selected < 0 || selected >= len(q.Options) {
		return QuizOutcome{}, fmt.Errorf("option %d: %w", selected, ErrNotFound)
	}

	key := stats.MediaKey(turn.Index, course.KindQuiz, offset)
	if prev, ok := s.answered[key]; ok {
		prev.Repeat = true
		return prev, nil
	}

	out := QuizOutcome{
		Selected:      selected,
		Correct:       quiz.ScoreChoice(selected, q.CorrectAnswer),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	s.answered[key] = out
	s.agg.RecordQuizAnswer(key, out.Correct)
	s.persist("stats", s.store.SaveStats(ctx, s.agg.Stats()))
	s.logger.Debug("quiz answered", zap.String("quiz", key), zap.Bool("correct", out.Correct))
	return out, nil
}

// QuizAnswer returns the outcome already recorded for the offset-th quiz
// of the current turn during this visit.
func (s *Session) QuizAnswer(offset int) (QuizOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.answered[stats.MediaKey(s.coord.State().Index, course.KindQuiz, offset)]
	return out, ok
}
