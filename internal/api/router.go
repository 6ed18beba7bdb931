package api

import (
	"net/http"

	"hooksy-assistant/internal/api/handlers"
	"hooksy-assistant/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configures HTTP routes
func SetupRouter(handler *handlers.Handler, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()

	// Apply logging middleware
	router.Use(func(next http.Handler) http.Handler {
		return LoggingMiddleware(logger, m, next)
	})

	// Health check
	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	// Chat endpoint: POST for JSON and SSE, GET for WebSocket upgrades
	router.HandleFunc("/chat", handler.ChatHandler).Methods("POST", "GET")

	router.HandleFunc("/quota", handler.QuotaHandler).Methods("GET")
	router.HandleFunc("/sessions/{id}/transcript", handler.TranscriptHandler).Methods("GET")
	router.HandleFunc("/sessions/{id}/transcript", handler.ResetTranscriptHandler).Methods("DELETE")

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	return router
}
