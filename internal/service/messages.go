package service

import (
	"errors"
	"fmt"

	apperror "hooksy-assistant/internal/error"
)

// Fixed assistant replies
const (
	DailyLimitMessage = "⏰ Daily limit reached!\n\nPlease try again tomorrow!\n\n" +
		"💡 The limit resets at midnight. This helps keep the service free for everyone."

	RateLimitMessage = "⏰ Rate limit reached!\n\n💡 Solutions:\n" +
		"1. Wait a few minutes and try again\n" +
		"2. You might be sending requests too quickly\n" +
		"3. The provider's daily allowance may be used up\n\n" +
		"Try again in a moment!"

	VideoTip = "💡 Tip: Try searching YouTube directly for video tutorials!"
)

// ------------------------------------------------------------------------------------------------------
func noVideosMessage(message string) string {
	return fmt.Sprintf("❌ Sorry, I couldn't find YouTube videos at the moment. "+
		"Try searching directly on YouTube for \"%s\"", message)
}

// ------------------------------------------------------------------------------------------------------
// failureMessage maps a text adapter error onto the guidance shown to the user
func failureMessage(err error) string {
	var provErr *apperror.ProviderError
	if !errors.As(err, &provErr) {
		return fmt.Sprintf("❌ Error: %v\n\nPlease try again or rephrase your question.", err)
	}

	switch provErr.Category {
	case apperror.CategoryRateLimited:
		return RateLimitMessage
	case apperror.CategoryAuthFailed:
		return fmt.Sprintf("🔑 API key issue! Please check your %s API key configuration.", providerLabel(provErr.Provider))
	default:
		message := provErr.Message
		if message == "" {
			message = provErr.Error()
		}
		return fmt.Sprintf("❌ Error: %s\n\nPlease try again or rephrase your question.", message)
	}
}

func providerLabel(name string) string {
	switch name {
	case "gemini":
		return "Gemini"
	case "groq":
		return "Groq"
	case "":
		return "provider"
	default:
		return name
	}
}
