package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/llm"
)

// PurposeReview labels short-answer review requests in the LLM event log.
const PurposeReview = "practice-review"

// Review is written feedback on a short answer.
type Review struct {
	Feedback string   `json:"feedback"`
	Missing  []string `json:"missing_points"`
}

var reviewSchema = &llm.Schema{
	Name:        "short-answer-review",
	Description: "Feedback on a learner's short answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of encouraging, specific feedback",
			},
			"missing_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Key ideas the answer left out",
			},
		},
		"required":             []any{"feedback", "missing_points"},
		"additionalProperties": false,
	},
}

// Reviewer asks an LLM for feedback on short answers. The key-point score
// stays authoritative; the review only explains it.
type Reviewer struct {
	provider llm.Provider
}

// NewReviewer returns a Reviewer. Wrap p with llm.WithRetry: reviews run
// after the practice set is submitted, not while the learner waits on a
// single keystroke.
func NewReviewer(p llm.Provider) *Reviewer {
	return &Reviewer{provider: p}
}

// Review returns feedback on answer to q.
func (r *Reviewer) Review(ctx context.Context, q course.ShortAnswerQuestion, answer string, score int) (*Review, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", q.Question)
	fmt.Fprintf(&b, "Key points: %s\n", strings.Join(q.KeyPoints, "; "))
	if q.SampleAnswer != "" {
		fmt.Fprintf(&b, "Sample answer: %s\n", q.SampleAnswer)
	}
	fmt.Fprintf(&b, "Learner answer: %s\n", strings.TrimSpace(answer))
	fmt.Fprintf(&b, "Key-point score: %d/100\n", score)

	resp, err := r.provider.Generate(llm.WithPurpose(ctx, PurposeReview), llm.Request{
		System: "You review a learner's short answer against the expected key points. " +
			"Do not change the score. Explain what was good and what was missing.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: b.String()}},
		Schema:    reviewSchema,
		MaxTokens: 400,
	})
	if err != nil {
		return nil, fmt.Errorf("review answer: %w", err)
	}

	var rev Review
	if err := json.Unmarshal(resp.Content, &rev); err != nil {
		return nil, fmt.Errorf("decode review: %w", err)
	}
	return &rev, nil
}
