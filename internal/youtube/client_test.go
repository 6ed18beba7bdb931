package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperror "hooksy-assistant/internal/error"

	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "kind": "youtube#searchListResponse",
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "vid1"}, "snippet": {"title": "Beginner Hat &amp; Brim", "channelTitle": "Hook Studio"}},
    {"id": {"kind": "youtube#video", "videoId": "vid2"}, "snippet": {"title": "Easy Beanie", "channelTitle": "Yarn Loop"}},
    {"id": {"kind": "youtube#channel"}, "snippet": {"title": "A channel", "channelTitle": "Ignored"}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), "yt-key", server.URL+"/")
	require.NoError(t, err)
	require.True(t, client.Enabled())
	return client
}

func TestClient_Call(t *testing.T) {
	var query, maxResults, kind string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		maxResults = r.URL.Query().Get("maxResults")
		kind = r.URL.Query().Get("type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	})

	result, err := client.Call(context.Background(), "  how to crochet a hat ")
	require.NoError(t, err)

	require.Equal(t, "how to crochet a hat crochet tutorial", query)
	require.Equal(t, "3", maxResults)
	require.Equal(t, "video", kind)

	require.Len(t, result.Videos, 2)
	require.Equal(t, "Beginner Hat & Brim", result.Videos[0].Title)
	require.Equal(t, "Hook Studio", result.Videos[0].Channel)
	require.Equal(t, "vid1", result.Videos[0].VideoID)
	require.Equal(t, "vid2", result.Videos[1].VideoID)
	require.Empty(t, result.Text)
}

func TestClient_DisabledWithoutKey(t *testing.T) {
	client, err := NewClient(context.Background(), "", "")
	require.NoError(t, err)
	require.False(t, client.Enabled())

	result, err := client.Call(context.Background(), "show me a hat")
	require.NoError(t, err)
	require.Empty(t, result.Videos)
}

func TestClient_ErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apperror.ProviderCategory
	}{
		{
			name:   "quota exceeded",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`,
			want:   apperror.CategoryRateLimited,
		},
		{
			name:   "invalid key",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid","errors":[{"reason":"keyInvalid","domain":"usageLimits"}]}}`,
			want:   apperror.CategoryAuthFailed,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":500,"message":"backend"}}`,
			want:   apperror.CategoryUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Call(context.Background(), "granny square")
			require.Error(t, err)

			var provErr *apperror.ProviderError
			require.ErrorAs(t, err, &provErr)
			require.Equal(t, tt.want, provErr.Category)
			require.Equal(t, ProviderYouTube, provErr.Provider)
		})
	}
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Call(ctx, "granny square")
	require.Error(t, err)
	require.Equal(t, apperror.CategoryNetwork, apperror.CategoryOf(err))
}
