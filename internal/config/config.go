package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/tipsplit/internal/calculator"
)

type Config struct {
	// Web Server
	Addr           string
	AllowedOrigins []string

	// Logging
	LogLevel string

	// Sessions
	Mode                 calculator.Mode
	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnvDefault("ADDR", ":8080"),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnvDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	mode, err := calculator.ParseMode(strings.ToLower(os.Getenv("TIPSPLIT_MODE")))
	if err != nil {
		return nil, fmt.Errorf("TIPSPLIT_MODE: %w", err)
	}
	cfg.Mode = mode

	cfg.SessionIdleTimeout, err = time.ParseDuration(getEnvDefault("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT: %w", err)
	}
	cfg.SessionSweepInterval, err = time.ParseDuration(getEnvDefault("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL: %w", err)
	}

	if cfg.SessionIdleTimeout <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
