package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

type geminiConfig struct {
	APIKey string `json:"api_key"`
}

type geminiProvider struct {
	apiKey string
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Answer(ctx context.Context, model string, question string, resumeText string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"Answer the question using only the resume below. If the resume does not contain the answer, say so briefly.\n\nResume:\n%s\n\nQuestion: %s",
		resumeText, question,
	)
	resp, err := client.Models.GenerateContent(
		ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return answer, nil
}

func createGeminiFactory(args interface{}) (IProvider, error) {
	cfg := &geminiConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api_key is required, set it in the config or via GEMINI_API_KEY")
	}
	provider := &geminiProvider{
		apiKey: apiKey,
	}
	return provider, nil
}

func init() {
	Register("gemini", createGeminiFactory)
}
