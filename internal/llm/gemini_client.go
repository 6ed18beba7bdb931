package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/provider"

	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// GeminiClient generates answers with the Gemini API
type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiClient creates a new Gemini client. baseURL may be empty to use the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, maxTokens int, httpClient *http.Client) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Name identifies the provider in logs and metrics
func (c *GeminiClient) Name() string {
	return ProviderGemini
}

// Call sends the message with the crochet persona and returns the generated text
func (c *GeminiClient) Call(ctx context.Context, message string) (provider.Result, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = int32(c.maxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(message), config)
	if err != nil {
		return provider.Result{}, classifyGeminiError(err)
	}
	if resp == nil {
		return provider.Result{}, apperror.NewProviderError(ProviderGemini, apperror.CategoryUnexpected, "empty response", apperror.ErrNoContent)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return provider.Result{}, apperror.NewProviderError(ProviderGemini, apperror.CategoryUnexpected, "response contained no text", apperror.ErrNoContent)
	}

	return provider.Result{Text: text}, nil
}

// ------------------------------------------------------------------------------------------------------
func classifyGeminiError(err error) *apperror.ProviderError {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return apperror.WrapTransportError(ProviderGemini, err)
	}

	category := apperror.CategoryForStatus(apiErr.Code)
	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED":
		category = apperror.CategoryRateLimited
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		category = apperror.CategoryAuthFailed
	}
	if hasErrorReason(apiErr.Details, "API_KEY_INVALID") {
		category = apperror.CategoryAuthFailed
	}

	message := apiErr.Message
	if message == "" {
		message = fmt.Sprintf("gemini API error: status %d", apiErr.Code)
	}

	return apperror.NewProviderError(ProviderGemini, category, message, err)
}

func hasErrorReason(details []map[string]any, reason string) bool {
	for _, detail := range details {
		if r, ok := detail["reason"].(string); ok && r == reason {
			return true
		}
	}
	return false
}
