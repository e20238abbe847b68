package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ppiankov/aletheia/internal/util"
)

// ErrNotConfigured is returned by the factories when a provider lacks the
// credentials or endpoint it needs
var ErrNotConfigured = errors.New("llm provider not configured")

// defaultMaxTokens applies to APIs that require a response limit when none
// is configured
const defaultMaxTokens = 2048

// Provider generates text from a prompt
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a single-turn prompt and returns the model's reply
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Embedder turns text into a vector
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed returns the embedding of text as produced by the provider
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	// Prompt is the user message
	Prompt string

	// System is an optional system instruction
	System string

	// MaxTokens limits the response length (0 uses the provider config)
	MaxTokens int
}

// GenerateResponse contains the model's output
type GenerateResponse struct {
	// Text is the generated reply, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption when the provider reports it
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL overrides the provider endpoint
	BaseURL string

	// Timeout for each API request
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return fallback
}

// configuredMaxTokens is the explicit response limit, or 0 when none is set
func (c Config) configuredMaxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 0
}

// maxTokens is the response limit for APIs that require one
func (c Config) maxTokens(requested int) int {
	if n := c.configuredMaxTokens(requested); n > 0 {
		return n
	}
	return defaultMaxTokens
}

func (c Config) httpClient(fallback time.Duration) *http.Client {
	return util.NewHTTPClient(util.ClientOptions{
		Timeout:    c.timeout(fallback),
		HTTPProxy:  c.HTTPProxy,
		HTTPSProxy: c.HTTPSProxy,
	})
}
