package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// chatBackend serves any API speaking the OpenAI chat completions
// protocol.
type chatBackend struct {
	name string
	api  *openai.Client
	// strict asks for strict JSON schema adherence. OpenRouter forwards
	// to models that reject the flag.
	strict bool
}

// NewOpenAI returns a Provider for OpenAI, or for a compatible server
// when cfg.BaseURL is set.
func NewOpenAI(cfg Endpoint) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	return newChatClient(ProviderOpenAI, cfg.APIKey, cfg.BaseURL, cfg.Model, true), nil
}

// NewOpenRouter returns a Provider for OpenRouter. Model names are
// OpenRouter slugs such as "google/gemini-2.0-flash-exp".
func NewOpenRouter(cfg Endpoint) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newChatClient(ProviderOpenRouter, cfg.APIKey, baseURL, cfg.Model, false), nil
}

func newChatClient(name, key, baseURL, model string, strict bool) *client {
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &client{
		name:    name,
		model:   model,
		backend: &chatBackend{name: name, api: openai.NewClientWithConfig(conf), strict: strict},
	}
}

func (b *chatBackend) complete(ctx context.Context, model string, req Request) (completion, error) {
	chat := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return completion{}, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      b.strict,
			},
		}
	}

	resp, err := b.api.CreateChatCompletion(ctx, chat)
	if err != nil {
		return completion{}, b.classify(err)
	}
	if len(resp.Choices) == 0 {
		return completion{}, invalidf(nil, "reply has no choices")
	}

	choice := resp.Choices[0]
	return completion{
		text:  choice.Message.Content,
		model: resp.Model,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		truncated: choice.FinishReason == openai.FinishReasonLength,
	}, nil
}

func (b *chatBackend) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(b.name, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(b.name, reqErr.HTTPStatusCode, err)
	}
	return classifyStatus(b.name, 0, err)
}
