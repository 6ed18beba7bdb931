package error

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ProviderCategory classifies why an external provider call failed
type ProviderCategory string

const (
	CategoryRateLimited ProviderCategory = "rate_limited"
	CategoryAuthFailed  ProviderCategory = "auth_failed"
	CategoryNetwork     ProviderCategory = "network"
	CategoryUnexpected  ProviderCategory = "unexpected"
)

// ProviderError is the only error type a provider adapter returns.
type ProviderError struct {
	Provider string           `json:"provider"`
	Category ProviderCategory `json:"category"`
	Message  string           `json:"message"`
	Err      error            `json:"-"`
}

// ------------------------------------------------------------------------------------------------------
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Category, e.Message)
}

// ------------------------------------------------------------------------------------------------------
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ------------------------------------------------------------------------------------------------------
// NewProviderError creates a provider error with an explicit category
func NewProviderError(provider string, category ProviderCategory, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Category: category,
		Message:  message,
		Err:      err,
	}
}

// ------------------------------------------------------------------------------------------------------
// CategoryForStatus maps an upstream HTTP status code to a provider category
func CategoryForStatus(status int) ProviderCategory {
	switch {
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthFailed
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CategoryNetwork
	default:
		return CategoryUnexpected
	}
}

// ------------------------------------------------------------------------------------------------------
// WrapTransportError converts a failed round trip (including a caller timeout) into a network error
func WrapTransportError(provider string, err error) *ProviderError {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr
	}

	message := "request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		message = "request timed out"
	} else if errors.Is(err, context.Canceled) {
		message = "request cancelled"
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			message = "request timed out"
		}
	}

	return NewProviderError(provider, CategoryNetwork, message, err)
}

// ------------------------------------------------------------------------------------------------------
// CategoryOf returns the provider category carried by err, or CategoryUnexpected
func CategoryOf(err error) ProviderCategory {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}
	return CategoryUnexpected
}
