package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string   `env:"PORT" envDefault:"8080"`
	StoreDriver  string   `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath   string   `env:"SQLITE_PATH" envDefault:"funds.db"`
	DatabaseURL  string   `env:"DATABASE_URL"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"`
	MaxAttempts  uint     `env:"TRANSFER_MAX_ATTEMPTS" envDefault:"3"`
	OTelEndpoint string   `env:"OTEL_ENDPOINT"`
	SeedDemo     bool     `env:"SEED_DEMO" envDefault:"false"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`

	// resource attributes attached to every exported span
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment    string `env:"APP_ENV" envDefault:"development"`
}

// Load reads an optional .env file into the process environment and parses
// the result into a Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load dotenv: %w", err)
		}
		// not an error: production relies on the real environment
		slog.Debug("no .env file found, using process environment")
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("config: SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MaxAttempts == 0 {
		return fmt.Errorf("config: TRANSFER_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// Durable reports whether the configured store survives a restart.
func (c Config) Durable() bool {
	return c.StoreDriver != "memory"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
