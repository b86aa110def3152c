// Package llm talks to hosted language models. Every vendor is reached
// through Provider; failures come back as *Error so callers can decide
// whether to retry or what to tell the learner.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model.
type Provider interface {
	// Generate returns the model's reply. With a Schema set the reply is
	// JSON already validated against it; without one it is plain text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the provider model ID requests are sent to.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Nil means free text.
	Schema *Schema

	// MaxTokens caps the reply. Zero uses a default of 1024.
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one prompt turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response is a model reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request as reported by the
	// provider, which may be more specific than ModelID.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage counts the tokens of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
