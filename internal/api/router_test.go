package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hooksy-assistant/internal/api/handlers"
	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/metrics"
	"hooksy-assistant/internal/provider"
	"hooksy-assistant/internal/quota"
	"hooksy-assistant/internal/service"
	"hooksy-assistant/internal/storage"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubText struct{}

func (stubText) Name() string { return "gemini" }

func (stubText) Call(ctx context.Context, message string) (provider.Result, error) {
	return provider.Result{Text: "**Step 1**\n- ch 4\n- join"}, nil
}

type stubVideo struct{}

func (stubVideo) Name() string  { return "youtube" }
func (stubVideo) Enabled() bool { return true }

func (stubVideo) Call(ctx context.Context, message string) (provider.Result, error) {
	return provider.Result{Videos: []provider.Video{{Title: "Magic Ring", Channel: "Hooked", VideoID: "m1"}}}, nil
}

func newTestServer(t *testing.T, limit int) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()

	chatService := service.NewChatService(
		storage.NewSessionStore(20, 0, 0),
		quota.NewStore(storage.NewMemoryKV(), limit, logger),
		stubText{},
		stubVideo{},
		m,
		logger,
		service.Options{MaxMessageChars: 100},
	)

	router := SetupRouter(handlers.NewHandler(chatService, logger), logger, m, reg)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postChat(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChat_JSON(t *testing.T) {
	server := newTestServer(t, 10)

	resp := postChat(t, server, `{"session_id":"s1","message":"what is a magic ring"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var turn service.TurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&turn))
	require.Equal(t, "s1", turn.SessionID)
	require.Equal(t, "Step 1\n• ch 4\n• join", turn.Response)
	require.Equal(t, service.StateResponded, turn.Outcome)
	require.Equal(t, 9, turn.Remaining)
}

func TestChat_ValidationErrors(t *testing.T) {
	server := newTestServer(t, 10)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"message":`},
		{"empty message", `{"message":"   "}`},
		{"too long", `{"message":"` + strings.Repeat("x", 101) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postChat(t, server, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body apperror.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, apperror.ErrorTypeValidation, body.Error.Type)
		})
	}
}

func TestChat_DeniedIsNotAnHTTPError(t *testing.T) {
	server := newTestServer(t, 1)

	postChat(t, server, `{"message":"what is a magic ring"}`)
	resp := postChat(t, server, `{"message":"what is a magic ring"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var turn service.TurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&turn))
	require.Equal(t, service.StateDenied, turn.Outcome)
	require.Equal(t, service.DailyLimitMessage, turn.Response)
}

func TestChat_SSE(t *testing.T) {
	server := newTestServer(t, 10)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/chat", strings.NewReader(`{"session_id":"s2","message":"what is a magic ring"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Equal(t, "s2", resp.Header.Get("X-Session-ID"))

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, []string{"Step 1", "• ch 4", "• join", "[DONE]"}, events)
}

func TestChat_SSEQueryParam(t *testing.T) {
	server := newTestServer(t, 10)

	resp, err := http.Post(server.URL+"/chat?stream=true", "application/json", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(body), "data: [DONE]\n\n"))
}

func TestChat_WebSocket(t *testing.T) {
	server := newTestServer(t, 10)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(service.TurnRequest{Message: "what is a magic ring"}))
	var first service.TurnResponse
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, service.StateResponded, first.Outcome)
	require.NotEmpty(t, first.SessionID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	var bad apperror.ErrorResponse
	require.NoError(t, conn.ReadJSON(&bad))
	require.Equal(t, apperror.ErrorTypeValidation, bad.Error.Type)

	require.NoError(t, conn.WriteJSON(service.TurnRequest{Message: "send me a video"}))
	var second service.TurnResponse
	require.NoError(t, conn.ReadJSON(&second))
	require.Equal(t, first.SessionID, second.SessionID)
	require.Contains(t, second.Response, "Magic Ring")

	resp, err := http.Get(server.URL + "/sessions/" + first.SessionID + "/transcript")
	require.NoError(t, err)
	defer resp.Body.Close()

	var transcript handlers.TranscriptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&transcript))
	require.Len(t, transcript.Turns, 5)
	require.Equal(t, storage.Greeting, transcript.Turns[0].Content)
}

func TestQuotaAndTranscriptEndpoints(t *testing.T) {
	server := newTestServer(t, 10)
	postChat(t, server, `{"session_id":"s3","message":"what is a magic ring"}`)

	resp, err := http.Get(server.URL + "/quota")
	require.NoError(t, err)
	defer resp.Body.Close()

	var usage quota.Usage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&usage))
	require.Equal(t, 1, usage.Count)
	require.Equal(t, 10, usage.Limit)
	require.Equal(t, 9, usage.Remaining)

	missing, err := http.Get(server.URL + "/sessions/nope/transcript")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestResetTranscriptEndpoint(t *testing.T) {
	server := newTestServer(t, 10)
	postChat(t, server, `{"session_id":"s5","message":"what is a magic ring"}`)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/sessions/s5/transcript", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var transcript handlers.TranscriptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&transcript))
	require.Len(t, transcript.Turns, 1)
	require.Equal(t, storage.Greeting, transcript.Turns[0].Content)

	missing, err := http.NewRequest(http.MethodDelete, server.URL+"/sessions/nope/transcript", nil)
	require.NoError(t, err)
	notFound, err := http.DefaultClient.Do(missing)
	require.NoError(t, err)
	defer notFound.Body.Close()
	require.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	server := newTestServer(t, 10)
	postChat(t, server, `{"session_id":"s4","message":"what is a magic ring"}`)

	health, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	require.Equal(t, http.StatusOK, health.StatusCode)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `chat_turns_total{outcome="responded",route="text_only"} 1`)
	require.Contains(t, string(body), `http_requests_total{endpoint="/chat",method="POST",status="200"} 1`)
	require.Contains(t, string(body), "quota_requests_today 1")
}
