package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type openAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type openAIStreamRequest struct {
	Model  string `json:"model"`
	Input  string `json:"input"`
	Stream bool   `json:"stream"`
}

type openAIStreamEvent struct {
	Type  string          `json:"type"`
	Delta json.RawMessage `json:"delta"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UpstreamError carries the error message of a non-success upstream
// response so the caller can forward it verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed: %d: %s", e.StatusCode, e.Message)
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Configured() bool {
	return p.apiKey != ""
}

func (p *openAIProvider) GenerateStream(ctx context.Context, model string, prompt string, onDelta DeltaFunc) error {
	if p.apiKey == "" {
		return ErrUnavailable
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/responses"
	reqBody := openAIStreamRequest{
		Model:  model,
		Input:  prompt,
		Stream: true,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeUpstreamError(resp)
	}
	return relayStream(resp.Body, onDelta)
}

// decodeUpstreamError extracts the upstream error message, falling back
// to a generic one when the body is not the expected shape.
func decodeUpstreamError(resp *http.Response) error {
	upErr := &UpstreamError{StatusCode: resp.StatusCode, Message: "upstream request failed"}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return upErr
	}
	var parsed openAIErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		upErr.Message = parsed.Error.Message
	}
	return upErr
}

// relayStream consumes the upstream event stream and forwards each text
// delta. Fragments may split lines anywhere, so complete lines are
// recovered through a trailing-fragment buffer. Lines that fail to parse
// as events are skipped without aborting the stream.
func relayStream(body io.Reader, onDelta DeltaFunc) error {
	var lines lineBuffer
	buf := make([]byte, 8*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range lines.Feed(string(buf[:n])) {
				text, ok := decodeDeltaLine(line)
				if !ok || text == "" {
					continue
				}
				if cbErr := onDelta(text); cbErr != nil {
					return cbErr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func decodeDeltaLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "data: ") || line == "data: [DONE]" {
		return "", false
	}
	var event openAIStreamEvent
	if err := json.Unmarshal([]byte(line[len("data: "):]), &event); err != nil {
		return "", false
	}
	if event.Type != "response.output_text.delta" && event.Type != "response.content_part.delta" {
		return "", false
	}
	return decodeDeltaText(event.Delta), true
}

// decodeDeltaText accepts both delta shapes the upstream emits: a bare
// string and an object with a text field.
func decodeDeltaText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Text
	}
	return ""
}

func createOpenAIFactory(args interface{}) (IProvider, error) {
	cfg := &openAIConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIProvider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		client:  http.DefaultClient,
	}, nil
}

func init() {
	Register("openai", createOpenAIFactory)
}
