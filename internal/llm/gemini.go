package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	geminiBaseURL       = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel  = "gemini-2.5-flash"
	geminiDefaultEmbed  = "embedding-001"
	geminiEmbeddingTask = "RETRIEVAL_DOCUMENT"
)

// GeminiProvider talks to the Google Generative Language REST API
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w (API key missing)", ErrNotConfigured)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &GeminiProvider{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: config.httpClient(60 * time.Second),
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate calls models/{model}:generateContent
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	modelName := p.config.Model
	if modelName == "" {
		modelName = geminiDefaultModel
	}

	apiReq := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.config.Temperature,
			// Thinking models spend output tokens before answering, so the
			// limit is only sent when one is configured.
			MaxOutputTokens: p.config.configuredMaxTokens(req.MaxTokens),
		},
	}
	if strings.TrimSpace(req.System) != "" {
		apiReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	var resp geminiGenerateResponse
	if err := p.post(ctx, modelPath(modelName)+":generateContent", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 {
		for _, part := range resp.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}

	used := resp.ModelVersion
	if used == "" {
		used = modelName
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(text.String()),
		Model:      used,
		TokensUsed: resp.UsageMetadata.TotalTokenCount,
	}, nil
}

// Embed calls models/{model}:embedContent with the retrieval-document task
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	modelName := p.config.Model
	if modelName == "" {
		modelName = geminiDefaultEmbed
	}
	path := modelPath(modelName)

	apiReq := geminiEmbedRequest{
		Model:    path,
		Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType: geminiEmbeddingTask,
	}

	var resp geminiEmbedResponse
	if err := p.post(ctx, path+":embedContent", apiReq, &resp); err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: empty embedding")
	}
	return resp.Embedding.Values, nil
}

func (p *GeminiProvider) post(ctx context.Context, path string, in, out interface{}) error {
	url := fmt.Sprintf("%s/%s", p.baseURL, path)
	headers := map[string]string{"x-goog-api-key": p.apiKey}
	return postJSON(ctx, p.httpClient, url, headers, in, out, func(body []byte) string {
		var apiErr geminiError
		if json.Unmarshal(body, &apiErr) != nil || apiErr.Error.Message == "" {
			return ""
		}
		return apiErr.Error.Status + " - " + apiErr.Error.Message
	})
}

// modelPath accepts both "gemini-2.5-flash" and "models/gemini-2.5-flash"
func modelPath(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "models/") {
		return name
	}
	return "models/" + name
}
