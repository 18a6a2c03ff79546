package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestUnlimited_NeverBlocks(t *testing.T) {
	l := Unlimited()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx, "proxy.example.com"); err != nil {
			t.Fatalf("Wait() on call %d returned unexpected error: %v", i, err)
		}
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	l := New(0.001, 1)
	ctx := context.Background()

	if err := l.Wait(ctx, "a.example.com"); err != nil {
		t.Fatalf("first Wait() for a.example.com returned unexpected error: %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(short, "b.example.com"); err != nil {
		t.Errorf("first Wait() for b.example.com returned unexpected error: %v", err)
	}
	if err := l.Wait(short, "a.example.com"); err == nil {
		t.Error("second Wait() for a.example.com expected error, got nil")
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := New(0.001, 1)
	ctx := context.Background()

	if err := l.Wait(ctx, "proxy.example.com"); err != nil {
		t.Fatalf("first Wait() returned unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "proxy.example.com"); err == nil {
		t.Error("second Wait() expected error from exhausted bucket, got nil")
	}
}

func TestNew_ClampsBurst(t *testing.T) {
	l := New(1, 0)
	if l.burst != 1 {
		t.Errorf("burst = %d, want 1", l.burst)
	}
}
