package download

import (
	"context"
	"time"
)

// RetryPolicy controls how a single download attempt is retried.
//
// The policy is applied around one attempt function, which keeps the
// retry behavior testable in isolation from any network code:
//
//	policy := download.RetryPolicy{
//	    MaxAttempts: 3,
//	    Multiplier:  time.Second,
//	    MinDelay:    4 * time.Second,
//	    MaxDelay:    10 * time.Second,
//	    Retryable:   http.IsTransient,
//	}
//	attempts, err := policy.Do(ctx, func() error { return fetch() })
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Multiplier scales the exponential wait: Multiplier * 2^(attempt-1).
	Multiplier time.Duration

	// MinDelay is the floor of the wait between attempts.
	MinDelay time.Duration

	// MaxDelay is the cap of the wait between attempts.
	MaxDelay time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries every error.
	Retryable func(error) bool
}

// Delay returns the wait after the given attempt (1-indexed):
// Multiplier * 2^(attempt-1), clamped to [MinDelay, MaxDelay].
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Multiplier * (1 << uint(attempt-1))
	if d < p.MinDelay {
		d = p.MinDelay
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, the error is not retryable, the attempt
// budget is exhausted, or the context is cancelled. It returns the number
// of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return attempt, err
		}
		if attempt == maxAttempts {
			return attempt, err
		}
		select {
		case <-ctx.Done():
			return attempt, err
		case <-time.After(p.Delay(attempt)):
		}
	}
	return maxAttempts, err
}
