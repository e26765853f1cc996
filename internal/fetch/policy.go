package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Default retry behaviour for outbound provider calls.
const (
	// DefaultMaxAttempts is the total number of tries, including the
	// first.
	DefaultMaxAttempts = 3

	// DefaultInitialDelay is the backoff before the first retry.
	DefaultInitialDelay = time.Second

	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 10 * time.Second

	// DefaultMultiplier is the exponential backoff factor.
	DefaultMultiplier = 2.0
)

// RetryPolicy describes when and how a request is retried. It is a
// plain value so the policy can be inspected and unit-tested in
// isolation rather than hidden inside a wrapper.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// Multiplier grows the delay between attempts.
	Multiplier float64
}

// DefaultRetryPolicy returns the standard policy: 3 attempts,
// exponential backoff starting at 1s capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// Delay returns the backoff before the given retry. attempt is
// 1-based: Delay(1) is the pause after the first failed try.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.InitialDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Retryable reports whether a failed attempt warrants another try.
// Transport errors and timeouts are transient; of the HTTP statuses
// only 5xx and 429 are. Any other 4xx is a terminal client error.
// Context cancellation is the caller giving up, not a flaky provider,
// and is never retried.
func (p RetryPolicy) Retryable(status int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return status >= 500 || status == http.StatusTooManyRequests
}
