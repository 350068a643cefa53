package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultModelServerTimeout = 30 * time.Second

type modelServerConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// modelServerProvider queries the question answering server that hosts
// the fine tuned model artifact.
type modelServerProvider struct {
	baseURL string
	client  *http.Client
}

type modelServerRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type modelServerResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

func (p *modelServerProvider) Name() string {
	return "modelserver"
}

func (p *modelServerProvider) Answer(ctx context.Context, model string, question string, resumeText string) (string, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/v1/answer"
	reqBody := modelServerRequest{
		Model: model,
		Input: FormatInput(question, resumeText),
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", ErrUnavailable
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model server request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var out modelServerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	answer := strings.TrimSpace(out.Answer)
	if answer == "" {
		return "", fmt.Errorf("model server response has no answer")
	}
	return answer, nil
}

func createModelServerFactory(args interface{}) (IProvider, error) {
	cfg := &modelServerConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("model server base_url is required")
	}
	timeout := defaultModelServerTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	provider := &modelServerProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
	return provider, nil
}

func init() {
	Register("modelserver", createModelServerFactory)
}
