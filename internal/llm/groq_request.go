package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperror "hooksy-assistant/internal/error"
)

// groqErrorBody is the OpenAI-compatible error envelope
type groqErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// DoRequest posts reqBody and returns the response on HTTP 200. The caller closes the body.
// Failures are returned as *apperror.ProviderError.
func (c *GroqClient) DoRequest(ctx context.Context, reqBody any) (*http.Response, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperror.NewProviderError(ProviderGroq, apperror.CategoryUnexpected, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperror.NewProviderError(ProviderGroq, apperror.CategoryUnexpected, "failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.WrapTransportError(ProviderGroq, err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, newGroqStatusError(resp.StatusCode, bodyBytes)
	}

	return resp, nil
}

func newGroqStatusError(status int, body []byte) *apperror.ProviderError {
	category := apperror.CategoryForStatus(status)

	var parsed groqErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		if parsed.Error.Code == "invalid_api_key" {
			category = apperror.CategoryAuthFailed
		}
		return apperror.NewProviderError(ProviderGroq, category, parsed.Error.Message,
			fmt.Errorf("groq API error: status %d", status))
	}

	return apperror.NewProviderError(ProviderGroq, category,
		fmt.Sprintf("groq API error: status %d", status),
		fmt.Errorf("body: %s", string(body)))
}
