package config

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hooksy-assistant/internal/api"
	"hooksy-assistant/internal/api/handlers"
	"hooksy-assistant/internal/llm"
	"hooksy-assistant/internal/logging"
	"hooksy-assistant/internal/metrics"
	"hooksy-assistant/internal/provider"
	"hooksy-assistant/internal/quota"
	"hooksy-assistant/internal/service"
	"hooksy-assistant/internal/storage"
	"hooksy-assistant/internal/youtube"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLogger() (*zap.Logger, error) {
	if err := logging.Init(c.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logging.Logger, nil
}

// ------------------------------------------------------------------------------------------------------
// NewKeyValueStore opens the quota backend, falling back to memory when it is unreachable
func (c *Config) NewKeyValueStore(logger *zap.Logger) storage.KeyValueStore {
	switch c.QuotaBackend {
	case QuotaBackendRedis:
		redisStore, err := storage.NewRedisStore(c.RedisAddr, c.RedisPassword, c.QuotaKeyPrefix)
		if err != nil {
			logger.Warn("Failed to connect to Redis, keeping quota in memory",
				zap.String("redis_addr", c.RedisAddr),
				zap.Error(err),
			)
			return storage.NewMemoryKV()
		}
		logger.Info("Connected to Redis", zap.String("redis_addr", c.RedisAddr))
		return redisStore

	case QuotaBackendSQLite:
		sqliteStore, err := storage.NewSQLiteStore(c.SQLitePath)
		if err != nil {
			logger.Warn("Failed to open SQLite, keeping quota in memory",
				zap.String("sqlite_path", c.SQLitePath),
				zap.Error(err),
			)
			return storage.NewMemoryKV()
		}
		logger.Info("Opened SQLite quota store", zap.String("sqlite_path", sqliteStore.Path()))
		return sqliteStore

	default:
		return storage.NewMemoryKV()
	}
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewQuotaStore(kv storage.KeyValueStore, logger *zap.Logger) (*quota.Store, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return quota.NewStore(kv, c.DailyLimit, logger, quota.WithLocation(loc)), nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewTextAdapter(ctx context.Context) (provider.TextAdapter, error) {
	switch c.TextProvider {
	case TextProviderGroq:
		return llm.NewGroqClient(c.GroqAPIKey, c.GroqBaseURL, c.GroqModel, c.MaxTokens), nil
	case TextProviderGemini:
		client, err := llm.NewGeminiClient(ctx, c.GeminiAPIKey, c.GeminiModel, c.GeminiBaseURL, c.MaxTokens, nil)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown text provider %q", c.TextProvider)
	}
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewVideoAdapter(ctx context.Context) (provider.VideoAdapter, error) {
	client, err := youtube.NewClient(ctx, c.YouTubeAPIKey, c.YouTubeBaseURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewSessionStore() *storage.SessionStore {
	return storage.NewSessionStore(c.MaxExchanges, c.MaxSessions, c.SessionIdleTTL)
}

// ------------------------------------------------------------------------------------------------------
// NewMetrics builds a registry with the runtime collectors and the service collectors
func (c *Config) NewMetrics() (*metrics.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg), reg
}

// ------------------------------------------------------------------------------------------------------
// NewChatService wires the router. The returned store must be closed on shutdown.
func (c *Config) NewChatService(ctx context.Context, logger *zap.Logger, m *metrics.Metrics) (service.ChatService, storage.KeyValueStore, error) {
	textAdapter, err := c.NewTextAdapter(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create text adapter: %w", err)
	}

	videoAdapter, err := c.NewVideoAdapter(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create video adapter: %w", err)
	}
	if !videoAdapter.Enabled() {
		logger.Warn("YOUTUBE_API_KEY not set, video search disabled")
	}

	kv := c.NewKeyValueStore(logger)

	quotaStore, err := c.NewQuotaStore(kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}

	chatService := service.NewChatService(
		c.NewSessionStore(),
		quotaStore,
		textAdapter,
		videoAdapter,
		m,
		logger,
		service.Options{
			MaxMessageChars: c.MaxMessageChars,
			TextTimeout:     c.TextTimeout,
			VideoTimeout:    c.VideoTimeout,
		},
	)

	return chatService, kv, nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHandler(chatService service.ChatService, logger *zap.Logger) *handlers.Handler {
	return handlers.NewHandler(chatService, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRouter(handler *handlers.Handler, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *mux.Router {
	return api.SetupRouter(handler, logger, m, gatherer)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHTTPServer(router *mux.Router) *http.Server {
	writeTimeout := c.TextTimeout + c.VideoTimeout + 15*time.Second

	return &http.Server{
		Addr:         ":" + c.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
