package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TextProviderGemini = "gemini"
	TextProviderGroq   = "groq"

	QuotaBackendMemory = "memory"
	QuotaBackendRedis  = "redis"
	QuotaBackendSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string

	TextProvider  string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GroqAPIKey    string
	GroqBaseURL   string
	GroqModel     string
	MaxTokens     int

	YouTubeAPIKey  string
	YouTubeBaseURL string

	DailyLimit     int
	QuotaBackend   string
	QuotaKeyPrefix string
	RedisAddr      string
	RedisPassword  string
	SQLitePath     string
	Timezone       string

	MaxExchanges    int
	MaxSessions     int
	SessionIdleTTL  time.Duration
	MaxMessageChars int
	TextTimeout     time.Duration
	VideoTimeout    time.Duration
}

// ------------------------------------------------------------------------------------------------------
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TextProvider:  strings.ToLower(getEnv("TEXT_PROVIDER", TextProviderGemini)),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		MaxTokens:     getEnvAsInt("MAX_TOKENS", 1024),

		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		YouTubeBaseURL: getEnv("YOUTUBE_BASE_URL", ""),

		DailyLimit:     getEnvAsInt("DAILY_LIMIT", 200),
		QuotaBackend:   strings.ToLower(getEnv("QUOTA_BACKEND", QuotaBackendMemory)),
		QuotaKeyPrefix: getEnv("QUOTA_KEY_PREFIX", "hooksy:quota"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/quota.db"),
		Timezone:       getEnv("TIMEZONE", "Local"),

		MaxExchanges:    getEnvAsInt("MAX_EXCHANGES", 20),
		MaxSessions:     getEnvAsInt("MAX_SESSIONS", 10000),
		SessionIdleTTL:  getEnvAsDuration("SESSION_IDLE_TTL", 24*time.Hour),
		MaxMessageChars: getEnvAsInt("MAX_MESSAGE_CHARS", 2000),
		TextTimeout:     getEnvAsDuration("TEXT_TIMEOUT", 30*time.Second),
		VideoTimeout:    getEnvAsDuration("VIDEO_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) Validate() error {
	switch c.TextProvider {
	case TextProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
	case TextProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable is required")
		}
	default:
		return fmt.Errorf("unknown TEXT_PROVIDER %q: must be %q or %q", c.TextProvider, TextProviderGemini, TextProviderGroq)
	}

	switch c.QuotaBackend {
	case QuotaBackendMemory, QuotaBackendRedis, QuotaBackendSQLite:
	default:
		return fmt.Errorf("unknown QUOTA_BACKEND %q: must be memory, redis or sqlite", c.QuotaBackend)
	}

	if c.DailyLimit <= 0 {
		return fmt.Errorf("DAILY_LIMIT must be positive, got %d", c.DailyLimit)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	return nil
}

// ------------------------------------------------------------------------------------------------------
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
