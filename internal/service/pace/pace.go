package pace

import (
	"context"
	"time"
)

// Waiter is a context-aware sleeper used to pace API calls.
type Waiter struct{}

// NewWaiter creates a Waiter.
func NewWaiter() *Waiter {
	return &Waiter{}
}

// Sleep blocks for d or until the context is cancelled.
func (w *Waiter) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
