package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvPrefix prefixes the application's own environment variables.
const EnvPrefix = "COURSEWALK_"

const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Endpoint says how to reach one provider. An empty BaseURL selects the
// vendor's public API.
type Endpoint struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is the backoff used when none is configured.
var DefaultRetry = RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2}

// Config selects the AI tutor's provider. The zero Config means the tutor
// is switched off.
type Config struct {
	Provider string
	Endpoint
	Retry RetryConfig
}

// vendors lists the providers in discovery order with the key variable
// each vendor documents and the model used when none is named.
var vendors = []struct {
	name, keyVar, model string
}{
	{ProviderGemini, "GEMINI_API_KEY", "gemini-flash"},
	{ProviderOpenAI, "OPENAI_API_KEY", "gpt-4o-mini"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", "claude-haiku"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", "google/gemini-2.0-flash-exp"},
}

// Resolve fills the gaps in c from the vendors' own environment
// variables. With no provider named, the first vendor whose key variable
// is set is chosen. A missing key or model is then taken from the
// vendor's variable and default.
func (c Config) Resolve() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		for _, v := range vendors {
			if os.Getenv(v.keyVar) != "" {
				c.Provider = v.name
				break
			}
		}
	}
	for _, v := range vendors {
		if v.name != c.Provider {
			continue
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv(v.keyVar)
		}
		if c.Model == "" {
			c.Model = v.model
		}
	}
	if c.Retry == (RetryConfig{}) {
		c.Retry = DefaultRetry
	}
	return c
}

// Configured reports whether a provider has been selected.
func (c Config) Configured() bool {
	return c.Provider != ""
}

// Validate reports a provider that is unknown or lacks a key.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return fmt.Errorf("no LLM provider configured; set %sLLM_PROVIDER", EnvPrefix)
	case ProviderMock:
		return nil
	}
	for _, v := range vendors {
		if v.name != c.Provider {
			continue
		}
		if c.APIKey == "" {
			return fmt.Errorf("the %s provider needs an API key; set %sLLM_API_KEY or %s", c.Provider, EnvPrefix, v.keyVar)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
