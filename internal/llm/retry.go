package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// WithRetry wraps p so temporary failures are retried with exponential
// backoff. Rate limits honour the provider's Retry-After, an invalid
// reply is retried once, and rejected or truncated requests fail at once.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retrying{next: p, cfg: cfg, sleep: sleepCtx}
}

type retrying struct {
	next  Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

func (r *retrying) ModelID() string {
	return r.next.ModelID()
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	wait := r.cfg.InitialWait
	invalidSeen := false

	for attempt := 1; ; attempt++ {
		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.cfg.MaxAttempts || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		delay := jitter(wait)
		var e *Error
		if errors.As(err, &e) {
			switch e.Kind {
			case KindRejected, KindTruncated:
				return nil, err
			case KindInvalid:
				if invalidSeen {
					return nil, err
				}
				invalidSeen = true
			case KindRateLimited:
				if e.RetryAfter > 0 {
					delay = e.RetryAfter
				}
			}
		}

		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
		wait = time.Duration(float64(wait) * r.cfg.Multiplier)
		if r.cfg.MaxWait > 0 {
			wait = min(wait, r.cfg.MaxWait)
		}
	}
}

// jitter spreads d by up to 20% either way.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := float64(d) * 0.2 * (2*rand.Float64() - 1)
	return d + time.Duration(spread)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
