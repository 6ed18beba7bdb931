package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperror "hooksy-assistant/internal/error"

	"github.com/google/uuid"
)

const (
	DefaultMaxMessageChars = 2000

	maxSessionIDLength = 64
)

// ------------------------------------------------------------------------------------------------------
// Validate trims the message and assigns a session id when the caller sent none
func (r *TurnRequest) Validate(maxChars int) error {
	if maxChars <= 0 {
		maxChars = DefaultMaxMessageChars
	}

	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return apperror.NewValidationError("message cannot be empty", apperror.ErrMessageEmpty)
	}

	if n := utf8.RuneCountInString(r.Message); n > maxChars {
		return apperror.NewValidationError(
			fmt.Sprintf("message has %d characters, maximum is %d", n, maxChars),
			apperror.ErrMessageTooLong,
		)
	}

	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID == "" {
		r.SessionID = uuid.NewString()
	}

	if len(r.SessionID) > maxSessionIDLength {
		return apperror.NewValidationError(
			fmt.Sprintf("session_id must be at most %d bytes", maxSessionIDLength),
			nil,
		)
	}

	return nil
}
