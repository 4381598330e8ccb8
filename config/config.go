package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the application configuration, loaded from the environment
// (with .env support for local runs).
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string
	// PostgresDSN selects the postgres store; empty means in-memory.
	PostgresDSN string
	// RepeatEndDate is the default horizon for rules without an end date.
	// It is a fixed calendar date on purpose: deriving it from the current
	// time would make expansion depend on when it runs.
	RepeatEndDate string
	// RepeatMaxSteps caps the work of one expansion.
	RepeatMaxSteps int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// New loads configuration from .env (if present) and the environment.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		RepeatEndDate:  getEnv("REPEAT_END_DATE", "2025-10-30"),
		RepeatMaxSteps: getEnvInt("REPEAT_MAX_STEPS", 1000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}
