package qa

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/coursewalk/internal/course"
)

var (
	// ErrEmptyQuestion rejects a question that is blank after trimming.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrBusy rejects a question while another is still being answered.
	ErrBusy = errors.New("a question is already being answered")

	// ErrNoTurn rejects a question pinned to a turn that does not exist.
	ErrNoTurn = errors.New("no such turn")
)

// Request is what the answering service receives.
type Request struct {
	Question string
	Context  string
}

// Result is the answering service's reply. Exactly one of Answer and
// Error is meaningful, selected by Success.
type Result struct {
	Success bool
	Answer  string
	Error   string
}

// Asker answers learner questions.
type Asker interface {
	Ask(ctx context.Context, req Request) Result
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, req Request) Result

func (f AskerFunc) Ask(ctx context.Context, req Request) Result { return f(ctx, req) }

// Response is one entry of the question history. Entries are never
// modified after they are appended.
type Response struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	ContextIndex    int       `json:"contextIndex"`
	Timestamp       time.Time `json:"timestamp"`
	SectionTitle    string    `json:"sectionTitle"`
	SubsectionTitle string    `json:"subsectionTitle"`
	IsError         bool      `json:"isError,omitempty"`
}

// History is the append-only list of answered questions.
type History struct {
	items []Response
}

// NewHistory returns a History holding a copy of rs.
func NewHistory(rs []Response) *History {
	return &History{items: slices.Clone(rs)}
}

// Append adds r to the end of the history.
func (h *History) Append(r Response) {
	h.items = append(h.items, r)
}

// All returns a copy of every entry in order.
func (h *History) All() []Response {
	out := slices.Clone(h.items)
	if out == nil {
		out = []Response{}
	}
	return out
}

// ForTurn returns the entries scoped to turn index i.
func (h *History) ForTurn(i int) []Response {
	var out []Response
	for _, r := range h.items {
		if r.ContextIndex == i {
			out = append(out, r)
		}
	}
	return out
}

// Clear drops every entry.
func (h *History) Clear() {
	h.items = nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.items)
}

// Service asks questions about a course with at most one question in
// flight.
type Service struct {
	asker  Asker
	index  *course.Index
	window int

	mu      sync.Mutex
	pending bool

	now   func() time.Time
	newID func() string
}

// NewService returns a Service using window preceding turns of context.
func NewService(asker Asker, idx *course.Index, window int) *Service {
	return &Service{
		asker:  asker,
		index:  idx,
		window: window,
		now:    time.Now,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Pending reports whether a question is being answered.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return false
	}
	s.pending = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

// Ask sends question with the context window around turn target. Failures
// of the answering service are not returned as errors: they come back as a
// Response with IsError set and the failure as its answer. Errors are
// returned only for rejected questions, which have no side effects.
func (s *Service) Ask(ctx context.Context, question string, target int) (Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Response{}, ErrEmptyQuestion
	}
	w, ok := BuildWindow(s.index, target, s.window)
	if !ok {
		return Response{}, fmt.Errorf("ask about turn %d: %w", target, ErrNoTurn)
	}
	if !s.acquire() {
		return Response{}, ErrBusy
	}
	defer s.release()

	res := s.asker.Ask(ctx, Request{Question: question, Context: w.String()})

	r := Response{
		ID:              s.newID(),
		Question:        question,
		ContextIndex:    target,
		Timestamp:       s.now(),
		SectionTitle:    w.SectionTitle,
		SubsectionTitle: w.SubsectionTitle,
	}
	if res.Success {
		r.Answer = res.Answer
	} else {
		r.IsError = true
		r.Answer = fmt.Sprintf("Error getting AI response: %s", res.Error)
	}
	return r, nil
}
