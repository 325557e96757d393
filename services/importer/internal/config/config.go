package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the importer.
type Config struct {
	DatabaseURL string
	DatasetPath string
	DryRun      bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DatasetPath: os.Getenv("DATASET_PATH"),
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.DatasetPath == "" {
		return cfg, errors.New("DATASET_PATH is required")
	}

	if dryStr := os.Getenv("DRY_RUN"); dryStr != "" {
		dry, err := strconv.ParseBool(dryStr)
		if err != nil {
			return cfg, errors.New("invalid DRY_RUN")
		}
		cfg.DryRun = dry
	}

	return cfg, nil
}
