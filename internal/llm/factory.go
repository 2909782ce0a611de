package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/abhisek/hanzidrill/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped so that
// calls go through retry, then request logging, then the SDK client.
// A nil eventRepo disables request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		base = WithLogging(base, cfg.Provider, eventRepo, log)
	}
	return WithRetry(base, cfg.Retry, clock.RealClock{}, log), nil
}
