package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/provider"
)

const (
	ProviderGroq       = "groq"
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1/chat/completions"
)

// GroqClient handles communication with an OpenAI-compatible chat completions API
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewGroqClient creates a new Groq client
func NewGroqClient(apiKey, baseURL, model string, maxTokens int) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = DefaultGroqModel
	}
	return &GroqClient{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request to Groq API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response
type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"`
}

// Name identifies the provider in logs and metrics
func (c *GroqClient) Name() string {
	return ProviderGroq
}

// Call performs a non-streaming chat completion with the crochet persona as system message
func (c *GroqClient) Call(ctx context.Context, message string) (provider.Result, error) {
	reqBody := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: message},
		},
		Stream:    false,
		MaxTokens: c.maxTokens,
	}

	resp, err := c.DoRequest(ctx, reqBody)
	if err != nil {
		return provider.Result{}, err
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return provider.Result{}, apperror.NewProviderError(ProviderGroq, apperror.CategoryUnexpected, "failed to decode response", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message == nil {
		return provider.Result{}, apperror.NewProviderError(ProviderGroq, apperror.CategoryUnexpected, "response contained no choices", apperror.ErrNoContent)
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return provider.Result{}, apperror.NewProviderError(ProviderGroq, apperror.CategoryUnexpected, "response contained no text", apperror.ErrNoContent)
	}

	return provider.Result{Text: text}, nil
}
