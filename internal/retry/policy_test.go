package retry

import (
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	p := DefaultPolicy()

	if !p.ShouldRetry(0) {
		t.Error("first attempt should be retryable")
	}
	if !p.ShouldRetry(p.MaxAttempts - 1) {
		t.Error("attempt below max should be retryable")
	}
	if p.ShouldRetry(p.MaxAttempts) {
		t.Error("attempt at max should not be retryable")
	}
}

func TestNextDelayGrowsAndCaps(t *testing.T) {
	p := Policy{
		MaxAttempts:       10,
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFactor:      0,
	}

	if d := p.NextDelay(0); d != time.Second {
		t.Errorf("attempt 0: expected 1s, got %v", d)
	}
	if d := p.NextDelay(2); d != 4*time.Second {
		t.Errorf("attempt 2: expected 4s, got %v", d)
	}
	if d := p.NextDelay(20); d != 10*time.Second {
		t.Errorf("attempt 20: expected cap of 10s, got %v", d)
	}
}

func TestNextDelayFloor(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Second, BackoffMultiplier: 2.0}

	if d := p.NextDelay(0); d < 100*time.Millisecond {
		t.Errorf("expected 100ms floor, got %v", d)
	}
}
