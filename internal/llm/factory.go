package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

// NewProvider creates a text generation provider.
// It returns (nil, nil) when no provider is selected and ErrNotConfigured
// when the selected provider is missing its credentials.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "google":
		p, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "anthropic", "claude":
		p, err := NewAnthropicProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		p, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// NewEmbedder creates an embedding provider with the same conventions as
// NewProvider. Anthropic has no embedding endpoint.
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "google":
		e, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return e, nil

	case "openai":
		e, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return e, nil

	case "ollama":
		e, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return e, nil

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: gemini, openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
	}
}

// EmbeddingConfigFromModel converts model.EmbeddingConfig to llm.Config
func EmbeddingConfigFromModel(c model.EmbeddingConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
	}
}
