package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	RedisURL    string `env:"REDIS_URL"` // empty disables the progress ledger
	Runs        int    `env:"RUNS" envDefault:"10"`
	Seed        int64  `env:"SEED" envDefault:"0"` // 0 seeds from the clock
	Dungeon     string `env:"DUNGEON"`             // empty runs the first dungeon by id
	PlayerID    string `env:"PLAYER_ID"`           // empty generates a new uuid

	LogLevel slog.Level
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("RUNS must be positive, got %d", cfg.Runs)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
