package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements Provider and Embedder for local Ollama models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider. Ollama needs no key, so
// the provider is considered configured once a model is named.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama: %w (model must be specified, e.g. llama3.1:8b)", ErrNotConfigured)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: config.httpClient(120 * time.Second), // Local models can be slow
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Generate uses /api/generate without streaming
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	apiReq := ollamaGenerateRequest{
		Model:  p.config.Model,
		Prompt: req.Prompt,
		Stream: false,
		System: req.System,
		Options: ollamaOptions{
			Temperature: p.config.Temperature,
			NumPredict:  p.config.maxTokens(req.MaxTokens),
		},
	}

	var resp ollamaGenerateResponse
	if err := p.post(ctx, "/api/generate", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return nil, fmt.Errorf("ollama: empty response")
	}

	return &GenerateResponse{
		Text:       text,
		Model:      resp.Model,
		TokensUsed: resp.PromptEvalCount + resp.EvalCount,
	}, nil
}

// Embed uses /api/embed
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp ollamaEmbedResponse
	err := p.post(ctx, "/api/embed", ollamaEmbedRequest{Model: p.config.Model, Input: []string{text}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama embed error: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama: empty embedding")
	}

	out := make([]float32, len(resp.Embeddings[0]))
	for i, v := range resp.Embeddings[0] {
		out[i] = float32(v)
	}
	return out, nil
}

func (p *OllamaProvider) post(ctx context.Context, path string, in, out interface{}) error {
	return postJSON(ctx, p.httpClient, p.baseURL+path, nil, in, out, func(body []byte) string {
		var apiErr ollamaError
		if json.Unmarshal(body, &apiErr) != nil {
			return ""
		}
		return apiErr.Error
	})
}
