// Package polling implements exponential-backoff polling for asynchronous
// backend jobs, such as waiting for a generated report to become ready.
// The streaming path never uses it; its retry policy is strictly a single
// fallback attempt.
package polling

import (
	"context"
	"errors"
	"time"
)

// ErrBudgetExhausted is returned when the condition was still unmet after
// the last allowed attempt.
var ErrBudgetExhausted = errors.New("polling: attempt budget exhausted")

// Policy configures exponential backoff between poll attempts.
type Policy struct {
	BaseDelay   time.Duration // Initial delay for the first wait
	MaxDelay    time.Duration // Maximum delay cap
	Multiplier  float64       // Exponential multiplier (typically 2.0)
	MaxAttempts int           // Maximum number of attempts
}

// DefaultPolicy returns sensible defaults for status polling.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   1 * time.Second,
		MaxDelay:    60 * time.Second,
		Multiplier:  2.0,
		MaxAttempts: 10,
	}
}

// Delay returns the wait before the next attempt, for a 1-indexed attempt
// number that just finished.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return p.BaseDelay
	}

	// Safe bit shifting to prevent overflow
	if attempt > 30 { // 1 << 30 would overflow int32
		attempt = 30
	}

	multiplier := float64(int(1)<<uint(attempt-1)) * p.Multiplier
	delay := time.Duration(float64(p.BaseDelay) * multiplier)

	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	return delay
}

// CheckFunc reports whether the awaited condition is met.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Poll runs check until it reports done, returns an error, the attempt
// budget runs out, or the context is cancelled.
func Poll(ctx context.Context, policy Policy, check CheckFunc) error {
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == policy.MaxAttempts {
			break
		}

		select {
		case <-time.After(policy.Delay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return ErrBudgetExhausted
}
