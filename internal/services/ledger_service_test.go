package services

import (
	"context"
	"errors"
	"testing"

	"cashlens/internal/core"
	"cashlens/internal/store"
	"cashlens/internal/store/memory"
)

func newTestService(t *testing.T) (*LedgerService, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc, err := NewLedgerService(context.Background(), st)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, st
}

func TestSetIncome(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	l, err := svc.SetIncome(ctx, 250000)
	if err != nil {
		t.Fatalf("set income: %v", err)
	}
	if l.Income.Cents != 250000 {
		t.Fatalf("expected 250000, got %d", l.Income.Cents)
	}

	if _, err := svc.SetIncome(ctx, 0); err != nil {
		t.Fatalf("zero income is valid: %v", err)
	}
}

func TestSetIncomeNegativeLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SetIncome(ctx, 100000); err != nil {
		t.Fatalf("set income: %v", err)
	}
	_, err := svc.SetIncome(ctx, -1)
	if !errors.Is(err, core.ErrNegativeIncome) {
		t.Fatalf("expected ErrNegativeIncome, got %v", err)
	}
	if got := svc.Snapshot().Income.Cents; got != 100000 {
		t.Fatalf("failed mutation must not touch the ledger, income now %d", got)
	}
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	e, l, err := svc.AddExpense(ctx, "  Coffee  ", 350, "Food")
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if e.Title != "Coffee" {
		t.Fatalf("title should be trimmed, got %q", e.Title)
	}
	if e.Category != core.Food || e.Amount.Cents != 350 {
		t.Fatalf("unexpected record: %+v", e)
	}
	if e.ID == 0 || e.Date.IsZero() {
		t.Fatalf("id and date must be assigned at insertion: %+v", e)
	}
	if len(l.Expenses) != 1 {
		t.Fatalf("expected 1 expense in snapshot, got %d", len(l.Expenses))
	}
}

func TestAddExpenseAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var prev int64
	for i := 0; i < 5; i++ {
		e, _, err := svc.AddExpense(ctx, "x", 100, "Other")
		if err != nil {
			t.Fatalf("add expense: %v", err)
		}
		if e.ID <= prev {
			t.Fatalf("ids must be strictly increasing: %d after %d", e.ID, prev)
		}
		prev = e.ID
	}
}

func TestAddExpenseValidationFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		title    string
		cents    int64
		category string
		want     error
	}{
		{"", 1000, "Food", core.ErrEmptyTitle},
		{"   ", 1000, "Food", core.ErrEmptyTitle},
		{"Coffee", -500, "Food", core.ErrInvalidAmount},
		{"Coffee", 0, "Food", core.ErrInvalidAmount},
		{"Coffee", 500, "Fuel", core.ErrInvalidCategory},
	}
	for i, tc := range cases {
		_, _, err := svc.AddExpense(ctx, tc.title, tc.cents, tc.category)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
	if got := len(svc.Snapshot().Expenses); got != 0 {
		t.Fatalf("failed mutations must not touch the ledger, have %d expenses", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	e, _, err := svc.AddExpense(ctx, "Coffee", 350, "Food")
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	l, err := svc.DeleteExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(l.Expenses) != 0 {
		t.Fatalf("expected empty collection, got %d", len(l.Expenses))
	}
}

func TestDeleteAbsentExpenseIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, _, err := svc.AddExpense(ctx, "Coffee", 350, "Food"); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	l, err := svc.DeleteExpense(ctx, 424242)
	if err != nil {
		t.Fatalf("deleting an absent id must not error: %v", err)
	}
	if len(l.Expenses) != 1 {
		t.Fatalf("collection must be unchanged, got %d expenses", len(l.Expenses))
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	if _, err := svc.SetIncome(ctx, 50000); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, "Coffee", 350, "Food"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	// A fresh service over the same store sees the committed state.
	reloaded, err := NewLedgerService(ctx, st)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Snapshot()
	if got.Income.Cents != 50000 || len(got.Expenses) != 1 {
		t.Fatalf("mutations were not persisted: %+v", got)
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	if _, err := svc.SetIncome(ctx, 50000); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, "Coffee", 350, "Food"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	l, err := svc.ClearAll(ctx)
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if l.Income.Cents != 0 || len(l.Expenses) != 0 {
		t.Fatalf("expected empty ledger, got %+v", l)
	}

	// Persisted state is gone too.
	if raw, ok := st.Raw(store.KeyExpenses); ok {
		t.Fatalf("expenses entry should be erased, still have %q", raw)
	}
	reloaded, err := NewLedgerService(ctx, st)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Snapshot()
	if got.Income.Cents != 0 || len(got.Expenses) != 0 {
		t.Fatalf("load after clear should return empty state, got %+v", got)
	}
}

func TestServiceDerivations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.SetIncome(ctx, 10000); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, "A", 3000, "Food"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, "B", 1000, "Travel"); err != nil {
		t.Fatalf("add: %v", err)
	}

	view := svc.View(core.FilterAll, core.SortAmountAsc)
	if len(view) != 2 || view[0].Title != "B" || view[1].Title != "A" {
		t.Fatalf("expected [B A], got %v", view)
	}

	sum := svc.Summary()
	if sum.Balance.Cents != 6000 {
		t.Fatalf("expected balance 6000, got %d", sum.Balance.Cents)
	}

	rows := svc.Breakdown()
	if len(rows) != 2 || rows[0].Category != core.Food || rows[0].Percentage != 75.0 {
		t.Fatalf("unexpected breakdown: %+v", rows)
	}
}
