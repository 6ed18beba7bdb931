package error

import "errors"

var (
	ErrMessageEmpty           = errors.New("message cannot be empty")
	ErrMessageTooLong         = errors.New("message exceeds the maximum length")
	ErrQuotaExceeded          = errors.New("daily request limit reached")
	ErrPersistenceUnavailable = errors.New("quota persistence unavailable")
	ErrNoContent              = errors.New("no response content in API response")
	ErrSessionNotFound        = errors.New("session not found")
)
