package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/service"

	"go.uber.org/zap"
)

// ------------------------------------------------------------------------------------------------------
// handleSSEChat runs one turn and emits the reply one line per event, followed by [DONE]
func (h *Handler) handleSSEChat(w http.ResponseWriter, r *http.Request) {

	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		h.sendErrorResponse(w, apperror.NewValidationError("Invalid JSON in request body", err))
		return
	}

	response, err := h.chatService.ProcessTurn(r.Context(), &req)
	if err != nil {
		h.logger.Error("Chat processing failed", zap.Error(err))
		h.sendErrorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("X-Session-ID", response.SessionID)
	w.Header().Set("X-Turn-Outcome", string(response.Outcome))

	flusher, _ := w.(http.Flusher)

	for _, line := range strings.Split(response.Response, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
			h.logger.Warn("Client went away during stream", zap.Error(err))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	// Send completion marker
	if _, err := w.Write([]byte("data: [DONE]\n\n")); err != nil {
		h.logger.Error("Failed to write completion marker", zap.Error(err))
		return
	}

	if flusher != nil {
		flusher.Flush()
	}
}
