package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	cfg        ProviderConfig
	httpClient HTTPDoer
}

// NewOpenAIProvider creates an OpenAI provider. Zero config fields fall back
// to the public endpoint, gpt-4o-mini and temperature 0.7.
func NewOpenAIProvider(cfg ProviderConfig, httpClient HTTPDoer) *OpenAIProvider {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = openAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIProvider{cfg: cfg, httpClient: httpClient}
}

func (p *OpenAIProvider) Name() string {
	return p.cfg.Name
}

func (p *OpenAIProvider) Available(ctx context.Context) bool {
	return p.cfg.APIKey != ""
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Answer sends the instruction as the system message and the prompt as the
// user message.
func (p *OpenAIProvider) Answer(ctx context.Context, instruction, prompt string, maxTokens int) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("%s: %w", p.Name(), ErrMissingCredential)
	}

	body, err := json.Marshal(openAIRequest{
		Model: p.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: prompt},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(p.cfg.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: OpenAI request: %w", ErrProviderCallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read OpenAI response: %w", ErrProviderCallFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openAIError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: OpenAI API error: %d - %s", ErrProviderCallFailed, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: OpenAI API error: status %d", ErrProviderCallFailed, resp.StatusCode)
	}

	var out openAIResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: invalid OpenAI envelope: %w", ErrBadProviderResponse, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content in OpenAI response", ErrBadProviderResponse)
	}

	return out.Choices[0].Message.Content, nil
}
