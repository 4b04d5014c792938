package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the server reads from the environment.
type AppConfig struct {
	Port           string
	LogLevel       string
	UseMemoryStore bool
	DatabasePath   string

	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	AllowedOrigins []string

	// Requests per second admitted before throttling, and the burst size.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from the environment, consulting a .env file
// when one exists.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, relying on OS environment", "error", err)
	}

	return &AppConfig{
		Port:           getEnv("PORT", "8111"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		UseMemoryStore: getEnv("USE_MEMORY_STORE", "") == "true" || getEnv("ENV", "") == "local",
		DatabasePath:   getEnv("DATABASE_PATH", "pennypilot.db"),

		CacheTTL:             getDurationEnv("ANALYTICS_CACHE_TTL", 15*time.Minute),
		CacheCleanupInterval: getDurationEnv("ANALYTICS_CACHE_CLEANUP", 30*time.Minute),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		RateLimitPerSecond: 10,
		RateLimitBurst:     30,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}
