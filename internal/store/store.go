// Package store defines the persistence port for the ledger and the
// serialized layout shared by its backends: a key-value pair of entries,
// income as decimal cents text and expenses as a JSON collection.
package store

import (
	"context"
	"fmt"

	"cashlens/internal/core"
)

// Persisted state keys. Both entries are written together; a backend
// must never commit one without the other.
const (
	KeyIncome   = "income"
	KeyExpenses = "expenses"
)

type Store interface {
	// Load reconstructs the ledger from persisted state. Malformed
	// content degrades per the fallback policy (unreadable expenses ->
	// empty collection, unreadable income -> zero) instead of failing;
	// only backend faults surface as errors.
	Load(ctx context.Context) (core.Ledger, error)

	// Save persists the full ledger. Saving the same ledger twice
	// yields the same persisted state.
	Save(ctx context.Context, l core.Ledger) error

	// Clear erases all persisted state unconditionally.
	Clear(ctx context.Context) error
}

// PersistenceError marks a backend fault (unreadable or unwritable
// store). It is never fatal: readers fall back to an empty ledger,
// writers keep the in-memory state authoritative for the session.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
