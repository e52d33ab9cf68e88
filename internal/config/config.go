package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the server settings. Everything domain-related lives
// in the backend; the front-end only needs to know where the backend
// is and how to keep its own sessions.
type Config struct {
	Addr          string // listen address
	BackendURL    string // REST backend base URL
	CSRFKeyHex    string // 32-byte hex CSRF secret, required in production
	SessionDBPath string // sqlite file for the session store
	StaticDir     string
	Environment   string // development or production
}

// Load reads configuration from .env (if present) and the environment.
// POST: Returns a Config with defaults applied, or an error for
// missing required settings
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err == nil {
		slog.Info("config_loaded", "source", ".env")
	}

	cfg := &Config{
		Addr:          envOrDefault("ACADEMY_ADDR", ":8080"),
		BackendURL:    envOrDefault("ACADEMY_BACKEND_URL", "http://localhost:8000"),
		CSRFKeyHex:    os.Getenv("ACADEMY_CSRF_KEY"),
		SessionDBPath: envOrDefault("ACADEMY_SESSION_DB", "academy.db"),
		StaticDir:     envOrDefault("ACADEMY_STATIC_DIR", "static"),
		Environment:   envOrDefault("ACADEMY_ENV", "development"),
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("ACADEMY_BACKEND_URL is required but not set")
	}
	return cfg, nil
}

// IsProduction returns true for the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
