package services

import (
	"context"
	"errors"
	"testing"
)

func TestConfirmGateLifecycle(t *testing.T) {
	g := NewConfirmGate()

	if _, pending := g.Pending(); pending {
		t.Fatalf("fresh gate should be idle")
	}

	ran := false
	g.Request("really clear everything?", func(ctx context.Context) error {
		ran = true
		return nil
	})

	msg, pending := g.Pending()
	if !pending || msg != "really clear everything?" {
		t.Fatalf("expected pending request, got %q (pending=%v)", msg, pending)
	}

	if err := g.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !ran {
		t.Fatalf("affirmative response must invoke the callback")
	}
	if _, pending := g.Pending(); pending {
		t.Fatalf("gate should return to idle after confirm")
	}
}

func TestConfirmGateCancelDiscardsCallback(t *testing.T) {
	g := NewConfirmGate()

	ran := false
	g.Request("sure?", func(ctx context.Context) error {
		ran = true
		return nil
	})
	g.Cancel()

	if ran {
		t.Fatalf("cancel must not invoke the callback")
	}
	if err := g.Confirm(context.Background()); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Fatalf("confirm after cancel expected ErrNoPendingConfirmation, got %v", err)
	}
}

func TestConfirmGateSecondRequestReplacesFirst(t *testing.T) {
	g := NewConfirmGate()

	first, second := false, false
	g.Request("first", func(ctx context.Context) error {
		first = true
		return nil
	})
	g.Request("second", func(ctx context.Context) error {
		second = true
		return nil
	})

	msg, _ := g.Pending()
	if msg != "second" {
		t.Fatalf("expected the second request to replace the first, got %q", msg)
	}
	if err := g.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if first || !second {
		t.Fatalf("only the replacing request may run (first=%v second=%v)", first, second)
	}
}

func TestConfirmGateIdleConfirm(t *testing.T) {
	g := NewConfirmGate()
	if err := g.Confirm(context.Background()); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Fatalf("expected ErrNoPendingConfirmation, got %v", err)
	}
	// Cancelling an idle gate is a harmless dismissal.
	g.Cancel()
}

func TestConfirmGatePropagatesActionError(t *testing.T) {
	g := NewConfirmGate()
	boom := errors.New("boom")
	g.Request("sure?", func(ctx context.Context) error { return boom })
	if err := g.Confirm(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected action error, got %v", err)
	}
	if _, pending := g.Pending(); pending {
		t.Fatalf("gate resets even when the action fails")
	}
}
