// Package config loads runtime configuration from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the bot and the monitor.
type Config struct {
	// Telegram bot token, required by the bot only
	TelegramBotToken string
	LogLevel         string
	// Seed for the mock sample generator
	MockSeed int64
	// Cron spec for the monitor refresh job
	RefreshSchedule string
	// How long a generated snapshot is served before it is regenerated
	SnapshotTTL time.Duration
	// Listen address for /metrics
	MetricsAddr string
}

// Default returns a sensible default config for local dev.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		MockSeed:        1,
		RefreshSchedule: "0 * * * *",
		SnapshotTTL:     time.Hour,
		MetricsAddr:     ":9090",
	}
}

// Load reads an optional .env file and overrides defaults from the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Default()
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MOCK_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MOCK_SEED %q: %w", v, err)
		}
		cfg.MockSeed = seed
	}
	if v := os.Getenv("REFRESH_SCHEDULE"); v != "" {
		cfg.RefreshSchedule = v
	}
	if v := os.Getenv("SNAPSHOT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SNAPSHOT_TTL %q: %w", v, err)
		}
		cfg.SnapshotTTL = ttl
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	return cfg, nil
}
