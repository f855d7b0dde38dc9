package services

import (
	"context"
	"errors"
	"sync"
)

// Gate states. Exactly one pending confirmation may exist at a time; a
// new request replaces the previous one.
const (
	Idle ConfirmState = iota
	AwaitingConfirmation
)

type ConfirmState int

var ErrNoPendingConfirmation = errors.New("no pending confirmation")

// ConfirmGate guards destructive operations behind an explicit
// confirm/cancel exchange. It is a two-state machine: Idle and
// AwaitingConfirmation(message, onConfirm); both resolutions return it
// to Idle and drop the stored callback.
type ConfirmGate struct {
	mu        sync.Mutex
	state     ConfirmState
	message   string
	onConfirm func(context.Context) error
}

func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{}
}

// Request arms the gate with a confirmation message and the action to
// run on an affirmative response, replacing any pending request.
func (g *ConfirmGate) Request(message string, onConfirm func(context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = AwaitingConfirmation
	g.message = message
	g.onConfirm = onConfirm
}

// Pending returns the message awaiting confirmation, if any.
func (g *ConfirmGate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message, g.state == AwaitingConfirmation
}

// Confirm runs the stored action and resets the gate. It fails with
// ErrNoPendingConfirmation when the gate is idle.
func (g *ConfirmGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	if g.state != AwaitingConfirmation {
		g.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	action := g.onConfirm
	g.reset()
	g.mu.Unlock()

	if action == nil {
		return nil
	}
	return action(ctx)
}

// Cancel discards the pending request. Cancelling an idle gate is a
// no-op dismissal.
func (g *ConfirmGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// reset must be called with the lock held.
func (g *ConfirmGate) reset() {
	g.state = Idle
	g.message = ""
	g.onConfirm = nil
}
