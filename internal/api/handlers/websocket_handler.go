package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// handleWebSocketChat treats every inbound frame as one turn of the same session
func (h *Handler) handleWebSocketChat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// The server's read and write timeouts still apply to the hijacked connection
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	sessionID := r.URL.Query().Get("session_id")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var req service.TurnRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.logger.Error("Failed to read WebSocket message", zap.Error(err))

			errorResponse := apperror.NewErrorResponse(
				apperror.NewValidationError("Failed to read WebSocket message: invalid JSON", err),
			)
			if err := conn.WriteJSON(errorResponse); err != nil {
				return
			}
			continue
		}

		if req.SessionID == "" {
			req.SessionID = sessionID
		}

		response, err := h.chatService.ProcessTurn(r.Context(), &req)
		if err != nil {
			h.logger.Error("WebSocket turn failed", zap.Error(err))
			if err := conn.WriteJSON(apperror.NewErrorResponse(err)); err != nil {
				return
			}
			continue
		}
		sessionID = response.SessionID

		if err := conn.WriteJSON(response); err != nil {
			h.logger.Error("Failed to write WebSocket response", zap.Error(err))
			return
		}
	}
}
