package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatasetPath string
	DatabaseURL string
	Port        int
	BearerToken string
	DefaultTopN int
}

// Load reads configuration from environment variables (optionally .env).
// Exactly one dataset source must be configured: a CSV file via
// DATASET_PATH, or a Postgres instance via DATABASE_URL.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:        8080,
		DefaultTopN: 10,
	}

	cfg.DatasetPath = os.Getenv("DATASET_PATH")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if cfg.DatasetPath == "" && cfg.DatabaseURL == "" {
		return cfg, errors.New("either DATASET_PATH or DATABASE_URL is required")
	}
	if cfg.DatasetPath != "" && cfg.DatabaseURL != "" {
		return cfg, errors.New("DATASET_PATH and DATABASE_URL are mutually exclusive")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if topStr := os.Getenv("API_DEFAULT_TOP_N"); topStr != "" {
		if top, err := strconv.Atoi(topStr); err == nil && top > 0 {
			cfg.DefaultTopN = top
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_TOP_N: %s", topStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
