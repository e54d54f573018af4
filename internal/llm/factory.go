package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates a provider from configuration, wrapped as caller → retry → tracking → base.
// An empty provider name returns nil, nil: the role is disabled.
func NewProvider(ctx context.Context, config Config, retry RetryConfig) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch strings.ToLower(config.Provider) {
	case "openai":
		base, err = NewOpenAIProvider(config)
	case "groq":
		base, err = NewGroqProvider(config)
	case "anthropic", "claude":
		base, err = NewAnthropicProvider(config)
	case "gemini", "google":
		base, err = NewGeminiProvider(ctx, config)
	case "ollama":
		base, err = NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, groq, anthropic, gemini, ollama)", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", config.Provider, err)
	}

	return WithRetry(WithTracking(base), retry), nil
}
