package pace

import (
	"context"
	"testing"
	"time"
)

func TestSleepCompletes(t *testing.T) {
	w := NewWaiter()
	start := time.Now()
	if err := w.Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("returned before the duration elapsed")
	}
}

func TestSleepCancelled(t *testing.T) {
	w := NewWaiter()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Sleep(ctx, time.Minute)
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("sleep did not observe cancellation")
	}
}

func TestSleepZeroDuration(t *testing.T) {
	w := NewWaiter()
	if err := w.Sleep(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
