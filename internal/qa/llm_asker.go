package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/coursewalk/internal/llm"
)

// PurposeQA labels question requests in the LLM event log.
const PurposeQA = "qa"

// LLMAsker answers questions with an LLM provider. It makes exactly one
// call per question; wrap the provider for logging but not for retry.
type LLMAsker struct {
	provider    llm.Provider
	subject     string
	maxTokens   int
	temperature float64
}

// NewLLMAsker returns an asker that tutors in subject.
func NewLLMAsker(p llm.Provider, subject string) *LLMAsker {
	if subject == "" {
		subject = "this course"
	}
	return &LLMAsker{provider: p, subject: subject, maxTokens: 500, temperature: 0.7}
}

func (a *LLMAsker) systemPrompt(window string) string {
	return fmt.Sprintf("You are a tutor for %s. The learner is reading an instructional dialogue and has a question about it. "+
		"Current context:\n%s\n\nPlease provide a helpful, educational response to their question.", a.subject, window)
}

func (a *LLMAsker) Ask(ctx context.Context, req Request) Result {
	if a.provider == nil {
		return Result{Error: "AI provider not configured; set COURSEWALK_LLM_PROVIDER and an API key"}
	}

	resp, err := a.provider.Generate(llm.WithPurpose(ctx, PurposeQA), llm.Request{
		System: a.systemPrompt(req.Context),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: req.Question},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return Result{Error: llm.Friendly(err)}
	}

	answer := strings.TrimSpace(string(resp.Content))
	if answer == "" {
		return Result{Error: "empty response from AI provider"}
	}
	return Result{Success: true, Answer: answer}
}
