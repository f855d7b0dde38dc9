// Package sqlite implements the durable ledger store on a local SQLite
// database. State lives in a single key-value table so income and
// expenses commit in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashlens/internal/core"
	"cashlens/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (core.Ledger, error) {
	incomeRaw, err := s.value(ctx, store.KeyIncome)
	if err != nil {
		return core.Ledger{}, &store.PersistenceError{Op: "load", Err: err}
	}
	expensesRaw, err := s.value(ctx, store.KeyExpenses)
	if err != nil {
		return core.Ledger{}, &store.PersistenceError{Op: "load", Err: err}
	}

	var l core.Ledger
	l.Income, err = store.DecodeIncome(incomeRaw)
	if err != nil {
		slog.WarnContext(ctx, "Persisted income unreadable, defaulting to zero", "error", err)
		l.Income = core.Money{}
	}
	l.Expenses, err = store.DecodeExpenses(expensesRaw)
	if err != nil {
		slog.WarnContext(ctx, "Persisted expenses unreadable, defaulting to empty", "error", err)
		l.Expenses = nil
	}
	return l, nil
}

func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	expensesRaw, err := store.EncodeExpenses(l.Expenses)
	if err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	// Income and expenses commit together or not at all.
	const upsert = `INSERT INTO ledger_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, store.KeyIncome, store.EncodeIncome(l.Income)); err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}
	if _, err := tx.ExecContext(ctx, upsert, store.KeyExpenses, expensesRaw); err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}

	slog.DebugContext(ctx, "Ledger saved",
		"income_cents", l.Income.Cents,
		"expense_count", len(l.Expenses))
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ledger_state`); err != nil {
		return &store.PersistenceError{Op: "clear", Err: err}
	}
	slog.InfoContext(ctx, "Persisted ledger state cleared")
	return nil
}

func (s *Store) value(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM ledger_state WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}
