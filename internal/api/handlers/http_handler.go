package handlers

import (
	"encoding/json"
	"net/http"

	apperror "hooksy-assistant/internal/error"
	"hooksy-assistant/internal/service"

	"go.uber.org/zap"
)

// ----------------------------------------------------------------------------------------------------------------
func (h *Handler) handleJSONChat(w http.ResponseWriter, r *http.Request) {
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

	h.writeJSON(w, http.StatusOK, response)
}
