// Package memory implements the ledger store on an in-process
// key-value map. It is the default backend and the test fake; values
// are held in serialized form so it exercises the same codec and
// fallback policy as the durable backends.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"cashlens/internal/core"
	"cashlens/internal/store"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Load(ctx context.Context) (ledger core.Ledger, err error) {
	s.mu.Lock()
	incomeRaw := s.values[store.KeyIncome]
	expensesRaw := s.values[store.KeyExpenses]
	s.mu.Unlock()

	income, err := store.DecodeIncome(incomeRaw)
	if err != nil {
		slog.WarnContext(ctx, "Persisted income unreadable, defaulting to zero", "error", err)
		income.Cents = 0
	}
	expenses, err := store.DecodeExpenses(expensesRaw)
	if err != nil {
		slog.WarnContext(ctx, "Persisted expenses unreadable, defaulting to empty", "error", err)
		expenses = nil
	}

	ledger.Income = income
	ledger.Expenses = expenses
	return ledger, nil
}

func (s *Store) Save(ctx context.Context, l core.Ledger) error {
	expensesRaw, err := store.EncodeExpenses(l.Expenses)
	if err != nil {
		return &store.PersistenceError{Op: "save", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Both entries committed under one lock; no partial writes.
	s.values[store.KeyIncome] = store.EncodeIncome(l.Income)
	s.values[store.KeyExpenses] = expensesRaw
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

// SetRaw writes a raw value directly, bypassing the codec. Tests use it
// to simulate corrupt persisted state.
func (s *Store) SetRaw(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Raw returns the stored serialized value for a key.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
