package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string
	ContentPath string
	// DatabaseURL switches the catalog source to PostgreSQL when set.
	// Empty means the YAML catalog at ContentPath is used.
	DatabaseURL string
	MaxDBConns  int32
	// RedisURL enables the catalog cache. Empty disables caching.
	RedisURL          string
	CacheTTL          time.Duration
	ReplyDelay        time.Duration
	SessionTTL        time.Duration
	ChatRatePerMinute int
	AMQPURL           string
	EventExchange     string
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		ContentPath:       getEnv("CONTENT_PATH", "./content/catalog.yaml"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MaxDBConns:        int32(getEnvInt("MAX_DB_CONNS", 8)),
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTL:          time.Duration(getEnvInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		ReplyDelay:        time.Duration(getEnvInt("REPLY_DELAY_MS", 1500)) * time.Millisecond,
		SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		ChatRatePerMinute: getEnvInt("CHAT_RATE_PER_MINUTE", 30),
		AMQPURL:           getEnv("AMQP_URL", ""),
		EventExchange:     getEnv("EVENT_EXCHANGE", "folio.events"),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
