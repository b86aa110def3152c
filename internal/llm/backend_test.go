package llm

import (
	"context"
	"errors"
	"testing"
)

type fakeBackend struct {
	out completion
	err error
	req Request
}

func (f *fakeBackend) complete(_ context.Context, _ string, req Request) (completion, error) {
	f.req = req
	return f.out, f.err
}

func TestClient(t *testing.T) {
	tests := []struct {
		name     string
		out      completion
		err      error
		schema   *Schema
		wantKind ErrorKind
		wantErr  bool
		stop     string
	}{
		{name: "text", out: completion{text: "hi"}, stop: StopEnd},
		{name: "truncated text kept", out: completion{text: "h", truncated: true}, stop: StopMaxTokens},
		{name: "empty text", out: completion{text: "  "}, wantErr: true, wantKind: KindInvalid},
		{name: "structured", out: completion{text: `{"feedback":"x","score":1}`}, schema: feedbackSchema, stop: StopEnd},
		{name: "structured invalid", out: completion{text: `{}`}, schema: feedbackSchema, wantErr: true, wantKind: KindInvalid},
		{name: "structured truncated", out: completion{text: `{"feed`, truncated: true}, schema: feedbackSchema, wantErr: true, wantKind: KindTruncated},
		{name: "backend error", err: &Error{Kind: KindRateLimited}, wantErr: true, wantKind: KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{out: tt.out, err: tt.err}
			c := &client{name: "fake", model: "fake-1", backend: fb}

			resp, err := c.Generate(context.Background(), Request{Schema: tt.schema})
			if fb.req.MaxTokens != defaultMaxTokens {
				t.Errorf("MaxTokens = %d, want %d", fb.req.MaxTokens, defaultMaxTokens)
			}
			if tt.wantErr {
				var e *Error
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *Error", err)
				}
				if e.Kind != tt.wantKind || e.Provider != "fake" {
					t.Errorf("error = %v from %q, want %v from fake", e.Kind, e.Provider, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if resp.StopReason != tt.stop {
				t.Errorf("StopReason = %q, want %q", resp.StopReason, tt.stop)
			}
			if resp.Model != "fake-1" {
				t.Errorf("Model = %q, want the configured fake-1", resp.Model)
			}
		})
	}
}

func TestClient_ContextErrorWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &client{name: "fake", backend: &fakeBackend{err: errors.New("transport closed")}}

	if _, err := c.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestClient_UsageTotal(t *testing.T) {
	c := &client{backend: &fakeBackend{out: completion{text: "x", model: "m-2", usage: Usage{InputTokens: 2, OutputTokens: 3}}}}

	resp, err := c.Generate(context.Background(), Request{MaxTokens: 10})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", resp.Usage.TotalTokens)
	}
	if resp.Model != "m-2" {
		t.Errorf("Model = %q, want m-2", resp.Model)
	}
}
