package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with event
// logging. It does not retry: interactive callers surface a failure at
// once, and background callers wrap the result with WithRetry.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.Endpoint)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.Endpoint)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.Endpoint)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(cfg.Endpoint)
	case ProviderMock:
		base = NewEchoProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo, logger), nil
}
