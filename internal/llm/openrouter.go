package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
// Model IDs are passed through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting OpenRouter. An empty
// baseURL uses the public endpoint.
func NewOpenRouterProvider(apiKey, model, baseURL string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	inner := newOpenAICompatible(ProviderOpenRouter, apiKey,
		firstNonEmpty(model, defaultModels[ProviderOpenRouter]),
		firstNonEmpty(baseURL, defaultOpenRouterBaseURL))
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
