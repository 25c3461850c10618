// Package main is the entry point for the escape room.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/config"
	"github.com/samdwyer/escaperoom/internal/game"
	"github.com/samdwyer/escaperoom/internal/gamedata"
	"github.com/samdwyer/escaperoom/internal/logger"
	"github.com/samdwyer/escaperoom/internal/session"
	"github.com/samdwyer/escaperoom/internal/store"
	"github.com/samdwyer/escaperoom/internal/telemetry"
	"github.com/samdwyer/escaperoom/internal/world"
)

func main() {
	// Not fatal: variables may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logger())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(context.Background(), cfg, zl); err != nil {
		zl.Error("game error", zap.Error(err))
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	if cfg.Telemetry {
		setupOTelEnv(cfg)
		shutdown, err := telemetry.Setup(ctx, telemetry.WithLocale(cfg.Locale), telemetry.WithStore(cfg.Store))
		if err != nil {
			zl.Warn("telemetry setup failed, continuing without it", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					zl.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
		}
	}

	bundle, err := gamedata.LoadBundle()
	if err != nil {
		return fmt.Errorf("load text: %w", err)
	}
	texts := bundle.Catalog(cfg.Locale)
	building, err := world.LoadBuilding(texts)
	if err != nil {
		return fmt.Errorf("load building: %w", err)
	}
	zl.Info("content loaded", zap.String("locale", texts.Locale()), zap.Int("floors", len(building.Floors)))

	st, err := openStore(cfg, zl)
	if err != nil {
		return err
	}
	defer st.Close()

	s := session.New(building, texts, st, session.WithLogger(zl))
	defer func() {
		if err := s.Logout(ctx); err != nil {
			zl.Error("save on exit", zap.Error(err))
		}
	}()

	g, err := game.New(s, game.DefaultConfig(), zl)
	if err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}
	return g.Run(ctx)
}

func openStore(cfg config.Config, zl *zap.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		st, err := store.OpenSQLite(cfg.SQLitePath, zl)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return st, nil
	default:
		return store.NewFileStore(cfg.AccountsPath, cfg.GameStatesPath, zl), nil
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is set.
// Explicit OTEL_* variables win.
func setupOTelEnv(cfg config.Config) {
	if cfg.HoneycombAPIKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", cfg.HoneycombAPIKey, cfg.HoneycombDataset))
	}
}
