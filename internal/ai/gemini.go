package ai

import (
	"context"
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

func (p *geminiProvider) Configured() bool {
	return p.apiKey != ""
}

func (p *geminiProvider) GenerateStream(ctx context.Context, model string, prompt string, onDelta DeltaFunc) error {
	if p.apiKey == "" {
		return ErrUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return err
	}
	for resp, err := range client.Models.GenerateContentStream(
		ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	) {
		if err != nil {
			return err
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if cbErr := onDelta(text); cbErr != nil {
			return cbErr
		}
	}
	return nil
}

func createGeminiFactory(args interface{}) (IProvider, error) {
	cfg := &geminiConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	return &geminiProvider{
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func init() {
	Register("gemini", createGeminiFactory)
}
