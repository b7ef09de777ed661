package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken string

	APIBaseURL string
	APITimeout time.Duration

	LogLevel  string
	LogFormat string

	SessionBackend string
	SQLitePath     string
	DatabaseURL    string
	MigrationsPath string
	RedisURL       string

	PrometheusPort  string
	DevServerPort   string
	DevServerSecret string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		APIBaseURL:      getEnvOrDefault("API_BASE_URL", "http://localhost:8000/api"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "text"),
		SessionBackend:  getEnvOrDefault("SESSION_BACKEND", BackendMemory),
		SQLitePath:      getEnvOrDefault("SQLITE_PATH", "data/sessions.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrationsPath:  getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		RedisURL:        os.Getenv("REDIS_URL"),
		PrometheusPort:  getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		DevServerPort:   getEnvOrDefault("DEVSERVER_PORT", "8000"),
		DevServerSecret: os.Getenv("DEVSERVER_SECRET"),
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("API_TIMEOUT", "15s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be a positive duration such as 15s")
	}
	cfg.APITimeout = timeout

	switch cfg.SessionBackend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres session backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is required for the redis session backend")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q (memory, sqlite, postgres or redis)", cfg.SessionBackend)
	}

	return cfg, nil
}

// ValidateBot checks the settings only the chat bot needs.
func (c *Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
