// Package sentiment calls a hosted text-classification endpoint and passes
// its answer through untouched.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/util"
)

// MaxInputChars limits the text sent for classification
const MaxInputChars = 512

// Config configures the classifier endpoint
type Config struct {
	URL        string
	APIToken   string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
}

// Classifier posts text to a HuggingFace-style inference endpoint
type Classifier struct {
	url        string
	token      string
	httpClient *http.Client
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// NewClassifier creates a classifier. Without a token or URL the classifier
// is unconfigured and always returns the neutral default.
func NewClassifier(cfg Config) *Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Classifier{
		url:   strings.TrimSpace(cfg.URL),
		token: strings.TrimSpace(cfg.APIToken),
		httpClient: util.NewHTTPClient(util.ClientOptions{
			Timeout:    timeout,
			HTTPProxy:  cfg.HTTPProxy,
			HTTPSProxy: cfg.HTTPSProxy,
		}),
	}
}

// Configured reports whether calls will reach the endpoint
func (c *Classifier) Configured() bool {
	return c != nil && c.url != "" && c.token != ""
}

// Classify returns the endpoint's decoded response as the raw sentiment
func (c *Classifier) Classify(ctx context.Context, text string) model.Outcome[model.SentimentResult] {
	if !c.Configured() {
		return model.Skipped(model.NeutralSentiment())
	}

	raw, err := c.post(ctx, truncateRunes(text, MaxInputChars))
	if err != nil {
		return model.Failed(model.NeutralSentiment(), err)
	}
	return model.Succeeded(model.SentimentResult{Raw: raw})
}

func (c *Classifier) post(ctx context.Context, text string) (interface{}, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var raw interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return raw, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
