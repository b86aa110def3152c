package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/coursewalk/internal/store"
)

func seedEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coursewalk.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	for _, e := range []store.LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini-2024-07-18", Purpose: "qa", InputTokens: 1000, OutputTokens: 200, LatencyMs: 900, Success: true,
			RequestBody: "--- user\nwhat is matter?\n", ResponseBody: "Anything with mass."},
		{Provider: "mock", Model: "mock-echo", Purpose: "practice-review", InputTokens: 10, OutputTokens: 5, Success: false, ErrorMessage: "offline"},
	} {
		if err := s.EventRepo().AppendLLMRequest(context.Background(), e); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLLMCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	db := seedEvents(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant string
		wantErr string
	}{
		{
			name:    "list by purpose",
			args:    []string{"llm", "list", "--db", db, "--purpose", "qa"},
			want:    []string{"gpt-4o-mini"},
			notWant: "mock-echo",
		},
		{
			name: "view",
			args: []string{"llm", "view", "1", "--db", db},
			want: []string{"what is matter?", "Anything with mass."},
		},
		{
			name: "stats",
			args: []string{"llm", "stats", "--db", db},
			want: []string{"practice-review", "$0.0003", "No price known for mock-echo"},
		},
		{
			name:    "view needs a number",
			args:    []string{"llm", "view", "x", "--db", db},
			wantErr: "must be a number",
		},
		{
			name:    "view unknown id",
			args:    []string{"llm", "view", "99", "--db", db},
			wantErr: "no AI request with ID 99",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output lacks %q:\n%s", w, out)
				}
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output should not contain %q:\n%s", tt.notWant, out)
			}
		})
	}
}
