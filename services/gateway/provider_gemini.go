package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel     = "gemini-2.5-flash"
	geminiDefaultThreshold = string(genai.HarmBlockThresholdBlockMediumAndAbove)
)

var geminiHarmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	cfg    ProviderConfig
	client *genai.Client
}

// NewGeminiProvider creates a Gemini provider. Without an API key no client
// is created and every call fails with ErrMissingCredential.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig, httpClient *http.Client) (*GeminiProvider, error) {
	if cfg.Name == "" {
		cfg.Name = "gemini"
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.8
	}
	if cfg.TopK == 0 {
		cfg.TopK = 40
	}
	if cfg.SafetyThreshold == "" {
		cfg.SafetyThreshold = geminiDefaultThreshold
	}

	p := &GeminiProvider{cfg: cfg}
	if cfg.APIKey == "" {
		return p, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Name() string {
	return p.cfg.Name
}

func (p *GeminiProvider) Available(ctx context.Context) bool {
	return p.client != nil
}

func (p *GeminiProvider) generateConfig(instruction string, maxTokens int) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       genai.Ptr(p.cfg.Temperature),
		TopP:              genai.Ptr(p.cfg.TopP),
		TopK:              genai.Ptr(p.cfg.TopK),
		MaxOutputTokens:   int32(maxTokens),
	}
	if p.cfg.SafetyThreshold != "off" {
		for _, c := range geminiHarmCategories {
			gc.SafetySettings = append(gc.SafetySettings, &genai.SafetySetting{
				Category:  c,
				Threshold: genai.HarmBlockThreshold(p.cfg.SafetyThreshold),
			})
		}
	}
	return gc
}

// Answer sends the prompt with the instruction as system instruction.
func (p *GeminiProvider) Answer(ctx context.Context, instruction, prompt string, maxTokens int) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("%s: %w", p.Name(), ErrMissingCredential)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(prompt), p.generateConfig(instruction, maxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: Gemini API error: %w", ErrProviderCallFailed, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: Gemini blocked prompt: %s", ErrBadProviderResponse, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: invalid response from Gemini API", ErrBadProviderResponse)
	}
	return text, nil
}
