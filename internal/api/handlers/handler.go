package handlers

import (
	"encoding/json"
	"net/http"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/service"
	"hooksy-assistant/internal/storage"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	chatService service.ChatService
	logger      *zap.Logger
	upgrader    websocket.Upgrader
}

// TranscriptResponse is the body of GET and DELETE /sessions/{id}/transcript
type TranscriptResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []storage.Turn `json:"turns"`
}

// ------------------------------------------------------------------------------------------------------
func NewHandler(chatService service.ChatService, logger *zap.Logger) *Handler {
	return &Handler{
		chatService: chatService,
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {

	if websocket.IsWebSocketUpgrade(r) {
		h.handleWebSocketChat(w, r)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accept := r.Header.Get("Accept")

	if accept == "text/event-stream" || r.URL.Query().Get("stream") == "true" {
		h.handleSSEChat(w, r)
		return
	}

	h.handleJSONChat(w, r)
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) QuotaHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.chatService.QuotaStatus(r.Context()))
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	turns, err := h.chatService.Transcript(sessionID)
	if err != nil {
		h.sendErrorResponse(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, TranscriptResponse{SessionID: sessionID, Turns: turns})
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) ResetTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	turns, err := h.chatService.ResetTranscript(sessionID)
	if err != nil {
		h.sendErrorResponse(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, TranscriptResponse{SessionID: sessionID, Turns: turns})
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) sendErrorResponse(w http.ResponseWriter, err error) {
	statusCode := apperror.GetHTTPStatusCode(err)
	errorResponse := apperror.NewErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse); encodeErr != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(encodeErr),
			zap.Error(err),
		)
	}
}
