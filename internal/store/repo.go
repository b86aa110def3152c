package store

import (
	"context"
	"time"
)

// Medium is a flat string key-value store. Get reports a missing key with
// ok=false rather than an error.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// LLMRequestEventData is one AI tutor request as it is recorded.
type LLMRequestEventData struct {
	Provider, Model, Purpose  string
	InputTokens, OutputTokens int
	LatencyMs                 int64
	Success                   bool
	ErrorMessage              string
	RequestBody, ResponseBody string
}

// LLMRequestEventRecord is a recorded request with its row id and time.
type LLMRequestEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts narrows QueryLLMEvents. Zero values match everything.
type QueryOpts struct {
	Limit    int
	From, To time.Time // inclusive bounds
	Purpose  string
}

// LLMUsage totals the requests sharing one Key, a purpose or a model.
type LLMUsage struct {
	Key                       string
	Calls                     int
	InputTokens, OutputTokens int
	AvgLatencyMs              int64
}

// EventRepo appends to and reads from the AI tutor request log.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents lists events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	// GetLLMEvent returns nil and no error for an unknown id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
