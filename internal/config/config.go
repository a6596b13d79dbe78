package config

import (
	"fmt"
	"os"
	"strings"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppEnv   string

	// Token signing
	AuthSecret string

	// Directory (system of record for users)
	DirectoryDriver string // "ords" or "postgres"
	OrdsBaseURL     string
	OrdsBearer      string
	DatabaseURL     string

	// Redis (login rate limiting); empty addr disables it
	RedisAddr string
	RedisPass string
}

// Load reads environment variables into AppConfig. The signing secret is
// mandatory: a missing or empty AUTH_SECRET fails here, at startup, never
// per-request.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		AppEnv:   getEnv("APP_ENV", "development"),

		AuthSecret: os.Getenv("AUTH_SECRET"),

		DirectoryDriver: strings.ToLower(getEnv("DIRECTORY_DRIVER", "ords")),
		OrdsBaseURL:     strings.TrimRight(os.Getenv("ORDS_BASE_URL"), "/"),
		OrdsBearer:      os.Getenv("ORDS_BEARER"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASS"),
	}

	if cfg.AuthSecret == "" {
		return AppConfig{}, fmt.Errorf("config: AUTH_SECRET is required")
	}

	switch cfg.DirectoryDriver {
	case "ords":
		if cfg.OrdsBaseURL == "" {
			return AppConfig{}, fmt.Errorf("config: ORDS_BASE_URL is required for the ords directory driver")
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("config: DATABASE_URL is required for the postgres directory driver")
		}
	default:
		return AppConfig{}, fmt.Errorf("config: unknown DIRECTORY_DRIVER %q", cfg.DirectoryDriver)
	}

	return cfg, nil
}

// Production reports whether the service runs with production hardening
// (Secure session cookies).
func (c AppConfig) Production() bool {
	return c.AppEnv == "production"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
