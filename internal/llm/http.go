package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// errorDecoder extracts a readable message from a provider's error body.
// It returns "" when the body is not in the provider's error format.
type errorDecoder func(body []byte) string

// postJSON sends in as a JSON body and decodes a 200 response into out
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, in, out interface{}, decodeErr errorDecoder) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		if decodeErr != nil {
			if msg := decodeErr(respBody); msg != "" {
				return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, msg)
			}
		}
		return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
