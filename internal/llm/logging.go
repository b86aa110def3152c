package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/store"
)

// LoggingProvider writes a log line and a stored event for every request
// made through the Provider it wraps.
type LoggingProvider struct {
	next     Provider
	provider string
	events   store.EventRepo
	logger   *zap.Logger
}

// WithLogging wraps p. Either repo or logger may be nil.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{next: p, provider: providerName, events: repo, logger: logger.Named("llm")}
}

func (l *LoggingProvider) ModelID() string {
	return l.next.ModelID()
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	began := time.Now()
	resp, err := l.next.Generate(ctx, req)
	ev := l.event(PurposeFrom(ctx), req, resp, err, time.Since(began))

	l.log(ev, err)
	if l.events != nil {
		// Recording never changes the outcome of the request.
		if rerr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
			l.logger.Warn("could not record request", zap.Error(rerr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) event(purpose string, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.next.ModelID(),
		Purpose:     purpose,
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	if resp == nil {
		return ev
	}
	if resp.Model != "" {
		ev.Model = resp.Model
	}
	ev.InputTokens = resp.Usage.InputTokens
	ev.OutputTokens = resp.Usage.OutputTokens
	ev.ResponseBody = string(resp.Content)
	return ev
}

func (l *LoggingProvider) log(ev store.LLMRequestEventData, err error) {
	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err == nil {
		l.logger.Debug("request", fields...)
		return
	}
	if kind, ok := KindOf(err); ok {
		fields = append(fields, zap.Stringer("kind", kind))
	}
	l.logger.Warn("request failed", append(fields, zap.Error(err))...)
}

// transcript renders a request as plain text for the request log.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "--- %s\n%s\n", label, strings.TrimRight(body, "\n"))
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema "+req.Schema.Name, string(def))
		}
	}
	return b.String()
}
