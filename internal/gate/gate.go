// Package gate provides a binary wait/signal primitive for handshake
// rendezvous: one goroutine blocks until another reports an event.
package gate

import (
	"context"
	"time"
)

// Gate lets a blocking caller wait for an asynchronous event with an
// optional bound. Signal records the event; Wait consumes it. A Signal
// with no waiter is remembered, so signal-then-wait never blocks.
// Consecutive Signals without an intervening Wait coalesce into one,
// which keeps a duplicated handshake confirmation from leaving a stale
// count behind.
//
// The channel send in Signal happens-before the receive in Wait, so
// fields written before Signal are visible to the goroutine that wakes.
type Gate struct {
	ch chan struct{}
}

// New returns a gate with no pending signal.
func New() *Gate {
	return &Gate{ch: make(chan struct{}, 1)}
}

// Signal records the event and wakes one waiter. Non-blocking.
func (g *Gate) Signal() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// Reset discards a pending signal, if any. Non-blocking; used when the
// waiter gives up so a late signal cannot satisfy a future Wait.
func (g *Gate) Reset() {
	select {
	case <-g.ch:
	default:
	}
}

// Wait blocks until Signal has been called since the last successful
// Wait, or until ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout is Wait bounded by d. A non-positive d means no bound
// beyond ctx itself. Returns context.DeadlineExceeded when d elapses.
func (g *Gate) WaitTimeout(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return g.Wait(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	return g.Wait(ctx)
}
