package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hooksy-assistant/internal/config"
	"hooksy-assistant/internal/logging"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	logger.Info("Starting Hooksy assistant",
		zap.String("port", cfg.Port),
		zap.String("text_provider", cfg.TextProvider),
		zap.String("quota_backend", cfg.QuotaBackend),
		zap.Int("daily_limit", cfg.DailyLimit),
	)

	m, registry := cfg.NewMetrics()

	chatService, quotaKV, err := cfg.NewChatService(context.Background(), logger, m)
	if err != nil {
		logger.Fatal("Failed to create chat service", zap.Error(err))
	}
	defer func() {
		if err := quotaKV.Close(); err != nil {
			logger.Warn("Failed to close quota store", zap.Error(err))
		}
	}()

	handler := cfg.NewHandler(chatService, logger)

	router := cfg.NewRouter(handler, logger, m, registry)

	srv := cfg.NewHTTPServer(router)

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
