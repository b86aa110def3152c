package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/llm"
	"github.com/abhisek/coursewalk/internal/quiz"
)

func loadPractice(t *testing.T) *course.Practice {
	t.Helper()
	c, err := course.Load("../internal/course/testdata/course.json")
	if err != nil {
		t.Fatalf("load course: %v", err)
	}
	if c.Practice == nil {
		t.Fatal("test course has no practice set")
	}
	return c.Practice
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestPracticeRun(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"feedback":"Good start, mention energy too.","missing_points":["energy"]}`),
	})

	var out strings.Builder
	pr := &practiceRun{
		in:       bufio.NewReader(strings.NewReader("2\n6.022 × 10^23\nmatter has mass and volume\n")),
		out:      &out,
		reviewer: quiz.NewReviewer(mock),
		logger:   zaptest.NewLogger(t),
	}
	if err := pr.run(context.Background(), loadPractice(t)); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Score: 1/1 (100%)",
		"1. 67/100, missing: energy",
		"Good start, mention energy too.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
	if n := mock.CallCount(); n != 1 {
		t.Errorf("reviewer calls = %d, want 1", n)
	}
}

func TestPracticeRun_WrongAnswers(t *testing.T) {
	var out strings.Builder
	pr := &practiceRun{
		in:     bufio.NewReader(strings.NewReader("1\nsix\n\n")),
		out:    &out,
		logger: zaptest.NewLogger(t),
	}
	if err := pr.run(context.Background(), loadPractice(t)); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"correct answer: kilogram",
		"expected: 6.022 x 10^23",
		"Score: 0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}

func TestPracticeRun_ReportsElapsedTime(t *testing.T) {
	var out strings.Builder
	pr := &practiceRun{
		in:     bufio.NewReader(strings.NewReader("2\nsix\nmatter\n")),
		out:    &out,
		logger: zaptest.NewLogger(t),
		now:    steppingClock(65 * time.Second),
	}
	if err := pr.run(context.Background(), loadPractice(t)); err != nil {
		t.Fatalf("run: %v", err)
	}

	var scores []string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "Score: ") {
			scores = append(scores, line)
		}
	}
	if len(scores) != 3 {
		t.Fatalf("got %d score lines, want one per section:\n%s", len(scores), out.String())
	}
	for _, line := range scores {
		if !strings.HasSuffix(line, "Time: 1:05") {
			t.Errorf("score line %q should end with the section's elapsed time", line)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{65 * time.Second, "1:05"},
		{1499 * time.Millisecond, "0:01"},
		{61*time.Minute + 2*time.Second, "61:02"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.in); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPracticeRun_InputEnds(t *testing.T) {
	pr := &practiceRun{
		in:     bufio.NewReader(strings.NewReader("2\n")),
		out:    &strings.Builder{},
		logger: zaptest.NewLogger(t),
	}
	if err := pr.run(context.Background(), loadPractice(t)); err == nil {
		t.Error("run should fail when input ends mid-quiz")
	}
}

func TestPrompter(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out strings.Builder
		if got := prompter(strings.NewReader(tt.in), &out)("Reset?"); got != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.in, got, tt.want)
		}
		if out.String() != "Reset? [y/N] " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}
