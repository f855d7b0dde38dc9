// Package cli provides common initialization shared by the command
// entrypoints: logging, env loading, config and backend wiring.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"

	"cashlens/internal/backend"
	"cashlens/internal/config"
	applog "cashlens/internal/log"
	"cashlens/internal/services"
)

// SetupLogger initializes structured logging at the given level and
// installs it as the process default.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     parseLevel(level),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenLedgerService builds the store for the configured backend and a
// ledger service on top of it. The returned cleanup releases backend
// resources and is safe to call once.
func OpenLedgerService(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*services.LedgerService, func() error, error) {
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	svc, err := services.NewLedgerService(ctx, result.Store)
	if err != nil {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		return nil, nil, err
	}

	cleanup := func() error {
		if result.Cleanup != nil {
			return result.Cleanup()
		}
		return nil
	}
	return svc, cleanup, nil
}
