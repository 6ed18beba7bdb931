// Package youtube searches crochet tutorial videos with the YouTube Data API.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/provider"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

const (
	ProviderYouTube = "youtube"

	// QuerySuffix narrows every search to tutorials.
	QuerySuffix = " crochet tutorial"

	MaxResults = 3
)

// Client is the video-search adapter. Without an API key it is disabled and returns no videos.
type Client struct {
	service *ytapi.Service
}

// NewClient creates a client. An empty apiKey yields a disabled client; baseURL may be empty.
func NewClient(ctx context.Context, apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return &Client{}, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}

	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{service: service}, nil
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return ProviderYouTube
}

// Enabled reports whether an API key was configured
func (c *Client) Enabled() bool {
	return c.service != nil
}

// Call searches for at most MaxResults videos matching message
func (c *Client) Call(ctx context.Context, message string) (provider.Result, error) {
	if !c.Enabled() {
		return provider.Result{}, nil
	}

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(strings.TrimSpace(message) + QuerySuffix).
		Type("video").
		MaxResults(MaxResults).
		Context(ctx).
		Do()
	if err != nil {
		return provider.Result{}, classifyError(err)
	}

	videos := make([]provider.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, provider.Video{
			Title:   html.UnescapeString(item.Snippet.Title),
			Channel: html.UnescapeString(item.Snippet.ChannelTitle),
			VideoID: item.Id.VideoId,
		})
		if len(videos) == MaxResults {
			break
		}
	}

	return provider.Result{Videos: videos}, nil
}

// ------------------------------------------------------------------------------------------------------
func classifyError(err error) *apperror.ProviderError {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return apperror.WrapTransportError(ProviderYouTube, err)
	}

	category := apperror.CategoryForStatus(apiErr.Code)
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "quotaExceeded", "rateLimitExceeded", "dailyLimitExceeded":
			category = apperror.CategoryRateLimited
		case "keyInvalid", "keyExpired", "accessNotConfigured", "forbidden":
			category = apperror.CategoryAuthFailed
		}
	}

	message := apiErr.Message
	if message == "" {
		message = fmt.Sprintf("youtube API error: status %d", apiErr.Code)
	}

	return apperror.NewProviderError(ProviderYouTube, category, message, err)
}
