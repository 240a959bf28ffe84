// Package retry bounds transport-tier redelivery of delivery jobs.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Policy decides whether and when a failed delivery is tried again. It never
// applies to note status: a Failed note is only re-admitted by an operator
// reset.
type Policy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	JitterFactor      float64 // 0.0-1.0, fraction of jitter to add
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        5 * time.Minute,
		BackoffMultiplier: 2.0,
		JitterFactor:      0.2,
	}
}

func (p Policy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxAttempts
}

// NextDelay is exponential in the attempt count, jittered, capped at
// MaxBackoff and floored at 100ms.
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(p.InitialBackoff) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if delay > float64(p.MaxBackoff) {
		delay = float64(p.MaxBackoff)
	}

	if p.JitterFactor > 0 {
		jitterRange := delay * p.JitterFactor
		delay += (rand.Float64() * 2 * jitterRange) - jitterRange
	}

	if delay < float64(100*time.Millisecond) {
		delay = float64(100 * time.Millisecond)
	}

	return time.Duration(delay)
}
