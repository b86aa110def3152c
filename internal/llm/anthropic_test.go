package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func anthropicServer(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropic(Endpoint{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropic: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"model":         "claude-haiku-4-5-20251001",
		"stop_reason":   stop,
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 40, "output_tokens": 12},
	}
}

func TestAnthropic_Text(t *testing.T) {
	var body map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage("Matter has mass.", "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a tutor.",
		Messages: []Message{{Role: RoleUser, Content: "What is matter?"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if string(resp.Content) != "Matter has mass." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("StopReason = %q, want %q", resp.StopReason, StopEnd)
	}
	if want := (Usage{InputTokens: 40, OutputTokens: 12, TotalTokens: 52}); resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}

	if body["model"] != "claude-haiku-4-5" {
		t.Errorf("sent model = %v, want the resolved alias", body["model"])
	}
	if body["max_tokens"] != float64(defaultMaxTokens) {
		t.Errorf("sent max_tokens = %v, want %d", body["max_tokens"], defaultMaxTokens)
	}
	if id := p.ModelID(); id != "claude-haiku-4-5" {
		t.Errorf("ModelID() = %q", id)
	}
}

func TestAnthropic_Structured(t *testing.T) {
	replies := []map[string]any{
		anthropicMessage(`{"feedback":"Good","score":70}`, "end_turn"),
		anthropicMessage(`{"feedback":"Good"}`, "end_turn"),
		anthropicMessage(`{"feedback":"Go`, "max_tokens"),
	}
	calls := 0
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replies[calls])
		calls++
	})
	req := Request{Schema: feedbackSchema, Messages: []Message{{Role: RoleUser, Content: "review"}}}

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var got struct {
		Feedback string
		Score    int
	}
	if err := json.Unmarshal(resp.Content, &got); err != nil || got.Feedback != "Good" || got.Score != 70 {
		t.Errorf("Content = %s (%v)", resp.Content, err)
	}

	for _, want := range []ErrorKind{KindInvalid, KindTruncated} {
		_, err = p.Generate(context.Background(), req)
		if kind, ok := KindOf(err); !ok || kind != want {
			t.Errorf("err = %v, want kind %v", err, want)
		}
	}
}

func TestAnthropic_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		kind       ErrorKind
		wait       time.Duration
	}{
		{"rate limited", http.StatusTooManyRequests, "3", KindRateLimited, 3 * time.Second},
		{"bad key", http.StatusUnauthorized, "", KindRejected, 0},
		{"overloaded", http.StatusServiceUnavailable, "", KindUnavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": "api_error", "message": tt.name},
				})
			})

			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if e.Kind != tt.kind || e.Status != tt.status {
				t.Errorf("error = %v (HTTP %d), want %v (HTTP %d)", e.Kind, e.Status, tt.kind, tt.status)
			}
			if e.Provider != ProviderAnthropic {
				t.Errorf("Provider = %q", e.Provider)
			}
			if e.RetryAfter != tt.wait {
				t.Errorf("RetryAfter = %v, want %v", e.RetryAfter, tt.wait)
			}
		})
	}
}

func TestNewAnthropic_RequiresKey(t *testing.T) {
	if _, err := NewAnthropic(Endpoint{}); err == nil {
		t.Error("NewAnthropic without an API key should fail")
	}
}

func TestModelAliases(t *testing.T) {
	tests := []struct {
		aliases modelAliases
		in      string
		want    string
	}{
		{anthropicAliases, "claude-sonnet", "claude-sonnet-4-5"},
		{anthropicAliases, "claude-3-opus-20240229", "claude-3-opus-20240229"},
		{geminiAliases, "gemini-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := tt.aliases.resolve(tt.in); got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
