package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o", &ModelCost{2.5, 10}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"claude-sonnet-4-5-20250929", &ModelCost{3, 15}},
		{"google/gemini-2.0-flash-exp", &ModelCost{0.1, 0.4}},
		{"gemini-2.5-flash-lite", &ModelCost{0.1, 0.4}},
		{"GPT-5-MINI", &ModelCost{0.25, 2}},
		{"gpt-4oo", nil},
		{"mock-echo", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := LookupCost(tt.model)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("LookupCost(%q) = %v, want %+v", tt.model, got, *tt.want)
			}
		})
	}
}

func TestModelCost(t *testing.T) {
	c := LookupCost("claude-haiku-4-5")
	if c == nil {
		t.Fatal("claude-haiku-4-5 has no price")
	}
	if got := c.Cost(1000, 1000); math.Abs(got-0.006) > 1e-9 {
		t.Errorf("Cost(1000, 1000) = %v, want 0.006", got)
	}
	if got := c.Cost(0, 0); got != 0 {
		t.Errorf("Cost(0, 0) = %v, want 0", got)
	}
}
