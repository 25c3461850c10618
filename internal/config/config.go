// Package config reads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/escaperoom/internal/logger"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds every setting the game reads at startup.
type Config struct {
	AccountsPath   string `env:"ESCAPE_ACCOUNTS_PATH"   envDefault:"accounts.json"`
	GameStatesPath string `env:"ESCAPE_GAMESTATES_PATH" envDefault:"gamestates.json"`
	Store          string `env:"ESCAPE_STORE"           envDefault:"json"`
	SQLitePath     string `env:"ESCAPE_SQLITE_PATH"     envDefault:"escaperoom.db"`
	Locale         string `env:"ESCAPE_LOCALE"          envDefault:"en-US"`

	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`
	// The terminal owns stdout while playing, so logs go to a file by default.
	LogPath string `env:"LOG_PATH" envDefault:"escaperoom.log"`

	Telemetry        bool   `env:"ESCAPE_TELEMETRY" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_ESCAPEROOM_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_ESCAPEROOM_DATASET" envDefault:"escaperoom"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store != StoreJSON && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("ESCAPE_STORE must be %q or %q, got %q", StoreJSON, StoreSQLite, cfg.Store)
	}
	return cfg, nil
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Encoding:   c.LogEncoding,
		OutputPath: c.LogPath,
	}
}
