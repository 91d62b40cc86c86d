package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	Storage        string `env:"STORAGE" envDefault:"postgres" validate:"oneof=postgres memory"`
	DatabaseURL    string `env:"DATABASE_URL"                  validate:"required_if=Storage postgres"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"min=1s"`

	SampleDataPath string `env:"SAMPLE_DATA_PATH" envDefault:"data/samples/new_sample.json"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto slog. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
