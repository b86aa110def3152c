package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// defaultMaxTokens applies when a Request leaves MaxTokens at zero.
const defaultMaxTokens = 1024

// completion is what a backend extracts from one provider reply.
type completion struct {
	text      string
	model     string
	usage     Usage
	truncated bool
}

// backend speaks one vendor's API. It reports failures as *Error and
// leaves validation to the client wrapping it.
type backend interface {
	complete(ctx context.Context, model string, req Request) (completion, error)
}

// client turns a backend into a Provider.
type client struct {
	name    string
	model   string
	backend backend
}

func (c *client) ModelID() string {
	return c.model
}

func (c *client) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	out, err := c.backend.complete(ctx, c.model, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var e *Error
		if errors.As(err, &e) && e.Provider == "" {
			e.Provider = c.name
		}
		return nil, err
	}

	content := json.RawMessage(out.text)
	if req.Schema != nil {
		if out.truncated {
			return nil, &Error{Kind: KindTruncated, Provider: c.name, Content: content}
		}
		if err := req.Schema.Validate(content); err != nil {
			err.Provider = c.name
			return nil, err
		}
	} else if strings.TrimSpace(out.text) == "" {
		e := invalidf(content, "empty reply")
		e.Provider = c.name
		return nil, e
	}

	resp := &Response{
		Content:    content,
		Usage:      out.usage,
		Model:      out.model,
		StopReason: StopEnd,
	}
	if resp.Model == "" {
		resp.Model = c.model
	}
	if resp.Usage.TotalTokens == 0 {
		resp.Usage.TotalTokens = resp.Usage.InputTokens + resp.Usage.OutputTokens
	}
	if out.truncated {
		resp.StopReason = StopMaxTokens
	}
	return resp, nil
}

// modelAliases maps short names accepted in configuration to provider
// model IDs. Names not listed pass through unchanged.
type modelAliases map[string]string

func (m modelAliases) resolve(name string) string {
	if id, ok := m[name]; ok {
		return id
	}
	return name
}
