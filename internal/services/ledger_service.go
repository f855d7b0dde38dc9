// Package services implements the mutation API over the ledger and the
// confirmation gate for destructive operations.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cashlens/internal/core"
	"cashlens/internal/log"
	"cashlens/internal/store"
)

// LedgerService owns the authoritative in-memory ledger snapshot and
// persists it after every successful mutation. Persistence failures are
// non-fatal: the snapshot stays correct for the session and the failure
// is logged as a warning.
type LedgerService struct {
	mu     sync.Mutex
	store  store.Store
	ledger core.Ledger
	lastID int64
}

func NewLedgerService(ctx context.Context, st store.Store) (*LedgerService, error) {
	l, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s := &LedgerService{store: st, ledger: l}
	for _, e := range l.Expenses {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	return s, nil
}

// SetIncome replaces the declared total income. Negative values fail
// validation and leave the ledger untouched.
func (s *LedgerService) SetIncome(ctx context.Context, cents int64) (core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cents < 0 {
		return s.ledger.Clone(), core.ErrNegativeIncome
	}
	s.ledger.Income = core.Money{Cents: cents}
	s.persist(ctx)

	slog.InfoContext(ctx, "Income set",
		log.FieldComponent, log.ComponentLedger,
		log.FieldIncomeCents, cents)
	return s.ledger.Clone(), nil
}

// AddExpense validates the input, assigns a monotonic timestamp ID and
// appends the record. The ledger is unchanged on any validation failure.
func (s *LedgerService) AddExpense(ctx context.Context, title string, cents int64, category string) (core.Expense, core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := core.ParseCategory(category)
	if err != nil {
		return core.Expense{}, s.ledger.Clone(), err
	}
	now := time.Now()
	e := core.Expense{
		ID:       s.nextID(now),
		Title:    strings.TrimSpace(title),
		Amount:   core.Money{Cents: cents},
		Category: cat,
		Date:     now,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, s.ledger.Clone(), err
	}

	s.ledger.Expenses = append(s.ledger.Expenses, e)
	s.persist(ctx)

	slog.InfoContext(ctx, "Expense added", log.NewFields().
		WithComponent(log.ComponentLedger).
		WithOperation(log.OpCreate).
		WithExpense(e.ID, e.Title, e.Amount.Cents, e.Category.String()).
		ToSlice()...)
	return e, s.ledger.Clone(), nil
}

// DeleteExpense removes the record with the given ID. An absent ID is a
// no-op, not an error.
func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) (core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ledger.Expenses[:0]
	removed := false
	for _, e := range s.ledger.Expenses {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		slog.DebugContext(ctx, "Delete of absent expense ignored", log.FieldExpenseID, id)
		return s.ledger.Clone(), nil
	}

	s.ledger.Expenses = kept
	s.persist(ctx)

	slog.InfoContext(ctx, "Expense deleted",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	return s.ledger.Clone(), nil
}

// ClearAll resets the ledger to its empty state and erases persisted
// storage. Callers must route through the confirmation gate first.
func (s *LedgerService) ClearAll(ctx context.Context) (core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = core.Empty()
	if err := s.store.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "Persisted state not cleared, in-memory ledger reset anyway", log.FieldError, err)
	}

	slog.InfoContext(ctx, "Ledger cleared",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpClear)
	return s.ledger.Clone(), nil
}

// Snapshot returns a deep copy of the current ledger.
func (s *LedgerService) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// View derives the filtered, sorted expense list from the current
// snapshot. Every call recomputes; nothing is cached here.
func (s *LedgerService) View(filterCategory string, opt core.SortOption) []core.Expense {
	return core.DeriveView(s.Snapshot().Expenses, filterCategory, opt)
}

// Summary derives the income/expenses/balance triple.
func (s *LedgerService) Summary() core.Summary {
	return core.Summarize(s.Snapshot())
}

// Breakdown derives the ordered category report rows.
func (s *LedgerService) Breakdown() []core.BreakdownRow {
	return core.Breakdown(s.Snapshot().Expenses)
}

// persist is called with the lock held after every successful mutation.
func (s *LedgerService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.ledger); err != nil {
		slog.WarnContext(ctx, "Ledger not persisted, in-memory state remains authoritative",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, log.OpSave,
			log.FieldError, err)
	}
}

// nextID derives a creation-timestamp ID in Unix millis, bumped past
// the previous one when two creations land in the same millisecond.
func (s *LedgerService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
