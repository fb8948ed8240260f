// Package config loads process configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken string
	AdminID  int64
	DBPath   string
	Port     string
	LogLevel string
}

// Load reads configuration from the environment. A missing BOT_TOKEN is a
// fatal startup condition; everything else has a default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		DBPath:   envOr("MEALSBOT_DB_PATH", "mealsbot.db"),
		Port:     envOr("MEALSBOT_PORT", "8080"),
		LogLevel: envOr("MEALSBOT_LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	if raw := os.Getenv("ADMIN_USER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ADMIN_USER_ID: %w", err)
		}
		cfg.AdminID = id
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
