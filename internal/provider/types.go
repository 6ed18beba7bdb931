// Package provider defines the contract shared by the text-generation and
// video-search adapters.
package provider

import (
	"context"
	"fmt"
)

// Video is one search hit, in the order the provider ranked it
type Video struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	VideoID string `json:"video_id"`
}

// WatchURL returns the fully-qualified watch URL for the video
func (v Video) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.VideoID)
}

// Result is what an adapter call produced. Text is empty for video-only adapters.
type Result struct {
	Text   string  `json:"text,omitempty"`
	Videos []Video `json:"videos,omitempty"`
}

// TextAdapter generates an answer for a user message.
// Every returned error is an *apperror.ProviderError.
type TextAdapter interface {
	Name() string
	Call(ctx context.Context, message string) (Result, error)
}

// VideoAdapter searches tutorial videos for a user message.
// Every returned error is an *apperror.ProviderError.
type VideoAdapter interface {
	Name() string
	// Enabled reports whether a credential is configured. A disabled adapter returns empty results.
	Enabled() bool
	Call(ctx context.Context, message string) (Result, error)
}
