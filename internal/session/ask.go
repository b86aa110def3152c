package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/qa"
)

// ErrNoAsker is returned by Ask when the session has no AI collaborator.
var ErrNoAsker = errors.New("no AI collaborator configured")

// Ask sends question about the current turn. See AskAbout.
func (s *Session) Ask(ctx context.Context, question string) (qa.Response, error) {
	return s.AskAbout(ctx, question, s.coord.State().Index)
}

// AskAbout sends question with the context window ending at target. A
// failed call still yields an error-flagged response, which is kept in the
// history like any other answer. Only one question may be in flight.
func (s *Session) AskAbout(ctx context.Context, question string, target int) (qa.Response, error) {
	if s.questions == nil {
		return qa.Response{}, ErrNoAsker
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r, err := s.questions.Ask(ctx, question, target)
	if err != nil {
		if errors.Is(err, qa.ErrNoTurn) {
			return r, errors.Join(ErrNotFound, err)
		}
		return r, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Append(r)
	s.persist("questions", s.store.SaveQA(context.WithoutCancel(ctx), s.history.All()))
	s.logger.Info("question answered",
		zap.Int("turn", target),
		zap.Bool("error", r.IsError))
	return r, nil
}

// Pending reports whether a question is in flight.
func (s *Session) Pending() bool {
	return s.questions != nil && s.questions.Pending()
}

// CanAsk reports whether an AI collaborator is configured.
func (s *Session) CanAsk() bool {
	return s.questions != nil
}

// History returns every question asked, oldest first.
func (s *Session) History() []qa.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.All()
}

// HistoryFor returns the questions asked about turn i.
func (s *Session) HistoryFor(i int) []qa.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.ForTurn(i)
}

// ClearHistory forgets every question and removes the persisted history.
// A question in flight still lands in the cleared history when it returns.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ClearQA(ctx); err != nil {
		return err
	}
	s.history.Clear()
	s.logger.Info("question history cleared")
	return nil
}
