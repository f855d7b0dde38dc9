// Package backend selects and constructs the ledger store implementation.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"cashlens/internal/store"
	"cashlens/internal/store/memory"
	"cashlens/internal/store/sqlite"
)

// Type represents the kind of storage backend
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Config holds configuration for store creation
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLite:
		st, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: st, Cleanup: st.Close}, nil
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New(), Cleanup: nil}, nil
	}
}
