package llm

import (
	"fmt"
	"os"
	"time"
)

// Supported provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a single LLM provider.
type Config struct {
	// Provider is one of the Provider* constants. Empty means discover
	// from the environment.
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// defaultModels is used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderMock:       "mock",
}

// apiKeyEnv names the conventional environment variable per provider,
// in discovery priority order.
var apiKeyEnv = []struct {
	provider string
	env      string
}{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DefaultRetry is the retry policy applied when none is configured.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// DefaultConfig returns an unselected Config with default retry and timeout.
func DefaultConfig() Config {
	return Config{
		Retry:   DefaultRetry(),
		Timeout: 30 * time.Second,
	}
}

// DiscoverConfig probes the standard API key env vars
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is set.
func DiscoverConfig() (Config, bool) {
	for _, e := range apiKeyEnv {
		if k := os.Getenv(e.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = e.provider
			cfg.APIKey = k
			cfg.Model = defaultModels[e.provider]
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve fills the gaps in a partially configured Config. An empty
// provider falls back to DiscoverConfig. A missing key is read from the
// provider's conventional env var. It reports false when no provider
// could be selected.
func Resolve(cfg Config) (Config, bool) {
	if cfg.Provider == "" {
		found, ok := DiscoverConfig()
		if !ok {
			return Config{}, false
		}
		found.Model = firstNonEmpty(cfg.Model, found.Model)
		found.BaseURL = cfg.BaseURL
		if cfg.Retry.MaxAttempts > 0 {
			found.Retry = cfg.Retry
		}
		if cfg.Timeout > 0 {
			found.Timeout = cfg.Timeout
		}
		return found, true
	}

	if cfg.APIKey == "" {
		for _, e := range apiKeyEnv {
			if e.provider == cfg.Provider {
				cfg.APIKey = os.Getenv(e.env)
			}
		}
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetry()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg, true
}

// Validate checks that the selected provider is known and has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
