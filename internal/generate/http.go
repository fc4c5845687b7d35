package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPGenerator posts the prompt to a hosted generation endpoint and writes
// the binary response body to the output path. The API key is read from the
// environment at request time, never stored in configuration.
type HTTPGenerator struct {
	Endpoint   string
	APIKeyEnv  string
	Model      string
	httpClient *http.Client
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

func NewHTTPGenerator(endpoint, apiKeyEnv, model string) *HTTPGenerator {
	return &HTTPGenerator{
		Endpoint:  endpoint,
		APIKeyEnv: apiKeyEnv,
		Model:     model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, prompt, outputPath string) error {
	body, err := json.Marshal(generateRequest{Prompt: prompt, Model: g.Model})
	if err != nil {
		return fmt.Errorf("generator: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("generator: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKeyEnv != "" {
		key := os.Getenv(g.APIKeyEnv)
		if key == "" {
			return fmt.Errorf("generator: environment variable %s is not set", g.APIKeyEnv)
		}
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("generator: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("generator: unexpected status %d from %s", resp.StatusCode, g.Endpoint)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("generator: create output: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("generator: write output: %w", err)
	}
	return nil
}

var _ Generator = (*HTTPGenerator)(nil)
