package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies provider failures by how a caller should react.
type ErrorKind int

const (
	// KindUnavailable covers network failures, 5xx answers and anything
	// the backend could not classify.
	KindUnavailable ErrorKind = iota
	// KindRateLimited is a 429 from the provider.
	KindRateLimited
	// KindInvalid means the model answered but the content is unusable.
	KindInvalid
	// KindTruncated means a structured answer hit the token limit.
	KindTruncated
	// KindRejected is a 4xx other than 429: bad key, unknown model, bad
	// request. Retrying does not help.
	KindRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Error is returned by every provider in this package.
type Error struct {
	Kind     ErrorKind
	Provider string
	// Status is the HTTP status reported by the provider, when known.
	Status int
	// RetryAfter is the wait the provider asked for on a rate limit.
	RetryAfter time.Duration
	// Content is the raw model output for KindInvalid and KindTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Temporary reports whether the same request may succeed later.
func (e *Error) Temporary() bool {
	return e.Kind == KindUnavailable || e.Kind == KindRateLimited
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func invalidf(content json.RawMessage, format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Content: content, Err: fmt.Errorf(format, args...)}
}

// classifyStatus turns an HTTP status from a provider SDK into an *Error.
// A zero status means the request never got an answer.
func classifyStatus(provider string, status int, err error) *Error {
	e := &Error{Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

// Friendly renders err as a sentence a learner can act on.
func Friendly(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The AI tutor took too long to answer. Try again."
	}
	if errors.Is(err, context.Canceled) {
		return "The question was cancelled."
	}

	var e *Error
	if !errors.As(err, &e) {
		return "Could not reach the AI tutor: " + err.Error()
	}
	switch e.Kind {
	case KindRateLimited:
		return "The AI tutor is busy right now. Wait a moment and ask again."
	case KindRejected:
		if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
			return "The AI provider rejected the API key. Check " + EnvPrefix + "LLM_PROVIDER and its key."
		}
		return "The AI provider rejected the question: " + e.Error()
	case KindInvalid, KindTruncated:
		return "The AI tutor gave an unusable answer. Try rephrasing the question."
	}
	return "Could not reach the AI tutor: " + e.Error()
}
