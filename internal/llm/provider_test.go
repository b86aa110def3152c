package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/coursewalk/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`plain text`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != StopEnd {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != "plain text" {
		t.Fatalf("expected plain text, got %s", resp2.Content)
	}
}

func TestMockProvider_Errors(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: KindRateLimited}})

	_, err := mock.Generate(context.Background(), Request{})
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimited {
		t.Fatalf("expected a rate limit, got %v", err)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if kind, _ := KindOf(err); kind != KindUnavailable {
		t.Fatalf("empty queue: expected unavailable, got %v", err)
	}
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestEchoProvider(t *testing.T) {
	p := NewEchoProvider()
	for i := 0; i < 3; i++ {
		resp, err := p.Generate(context.Background(), Request{
			Messages: []Message{{Role: RoleUser, Content: "  what is a mole? "}},
		})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !strings.Contains(string(resp.Content), `"what is a mole?"`) {
			t.Errorf("echo = %s", resp.Content)
		}
	}
	if p.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", p.CallCount())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "qa")
	if p := PurposeFrom(ctx); p != "qa" {
		t.Fatalf("expected 'qa', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, "ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: "anthropic", Endpoint: Endpoint{APIKey: "sk-test"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "COURSEWALK_LLM_API_KEY"},
		{"openrouter with key", Config{Provider: "openrouter", Endpoint: Endpoint{APIKey: "k"}}, ""},
		{"gemini without key", Config{Provider: "gemini"}, "GEMINI_API_KEY"},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"none configured", Config{}, "no LLM provider"},
		{"unknown provider", Config{Provider: "unknown"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func clearVendorKeys(t *testing.T) {
	t.Helper()
	for _, v := range vendors {
		t.Setenv(v.keyVar, "")
	}
}

func TestConfig_Resolve(t *testing.T) {
	t.Run("named provider keeps its settings", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("OPENAI_API_KEY", "ignored")

		cfg := Config{Provider: " OpenAI ", Endpoint: Endpoint{APIKey: "sk-1", Model: "gpt-4o"}}.Resolve()
		if cfg.Provider != "openai" || cfg.APIKey != "sk-1" || cfg.Model != "gpt-4o" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Retry != DefaultRetry {
			t.Errorf("retry = %+v, want defaults", cfg.Retry)
		}
	})

	t.Run("named provider borrows the vendor key", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := Config{Provider: "gemini"}.Resolve()
		if cfg.APIKey != "g-key" || cfg.Model != "gemini-flash" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("discovers plain keys", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("OPENROUTER_API_KEY", "sk-or")

		cfg := Config{}.Resolve()
		if cfg.Provider != "anthropic" || cfg.APIKey != "sk-ant" || cfg.Model != "claude-haiku" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearVendorKeys(t)
		if cfg := (Config{}).Resolve(); cfg.Configured() {
			t.Errorf("expected no provider, got %q", cfg.Provider)
		}
	})
}

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage("ok"), Usage: Usage{InputTokens: 3, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, "mock", repo, zaptest.NewLogger(t))

	ctx := WithPurpose(context.Background(), "qa")
	req := Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "why?"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("second: expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.Purpose != "qa" || ok.InputTokens != 3 || ok.ResponseBody != "ok" {
		t.Errorf("success event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "--- system\nbe brief\n") || !strings.Contains(ok.RequestBody, "--- user\nwhy?\n") {
		t.Errorf("request body = %q", ok.RequestBody)
	}
	if failed.Success || failed.ErrorMessage != "boom" {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage("ok")}), "mock", repo, zaptest.NewLogger(t))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("mock provider: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Errorf("provider = %T, want *LoggingProvider", p)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil); err == nil {
		t.Error("expected error for openai without key")
	}

	p, err = NewProvider(context.Background(), Config{Provider: ProviderOpenRouter, Endpoint: Endpoint{APIKey: "k", Model: "x/y"}}, nil, nil)
	if err != nil {
		t.Fatalf("openrouter: %v", err)
	}
	if p.ModelID() != "x/y" {
		t.Errorf("ModelID() = %q, want x/y", p.ModelID())
	}
}
