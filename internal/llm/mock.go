package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of a Response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and keeps every request
// it was given. Once the script runs out it asks Fallback, and fails when
// there is none.
type MockProvider struct {
	Fallback func(Request) MockResponse
	// Calls holds the requests seen so far, oldest first.
	Calls []Request

	mu     sync.Mutex
	script []MockResponse
	model  string
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script, model: "mock"}
}

// NewEchoProvider answers without a network: every reply restates the
// learner's last message and says how to configure a real provider.
func NewEchoProvider() *MockProvider {
	return &MockProvider{model: "mock-echo", Fallback: echoReply}
}

func echoReply(req Request) MockResponse {
	question := ""
	if len(req.Messages) > 0 {
		question = strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)
	}
	text := fmt.Sprintf("(offline) You asked: %q. Set %sLLM_PROVIDER and an API key for real answers.", question, EnvPrefix)
	return MockResponse{Content: json.RawMessage(text)}
}

var errScriptDone = errors.New("no canned response left")

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	reply, ok := m.pop()
	if !ok {
		if m.Fallback == nil {
			return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errScriptDone}
		}
		reply = m.Fallback(req)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &Response{Content: reply.Content, Usage: reply.Usage, Model: m.model, StopReason: StopEnd}, nil
}

func (m *MockProvider) pop() (MockResponse, bool) {
	if len(m.script) == 0 {
		return MockResponse{}, false
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next, true
}

func (m *MockProvider) ModelID() string { return m.model }

// AddResponse extends the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, r)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
