package httputil

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// maxRetryDelay caps the exponential backoff. Asset fetches sit on the
// export path, so a stalled retry loop must never stretch into minutes.
const maxRetryDelay = 8 * time.Second

// RetryableError marks an error as transient. Wrap network timeouts and
// 5xx responses with this type so [Retry] attempts the operation again;
// bare errors abort the loop on first sight.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times. The wait between attempts
// doubles each round, capped at maxRetryDelay, with up to 25% random
// jitter so parallel fetches against the same host do not retry in
// lockstep. Cancellation wins over any pending wait, and a cancelled
// context fails fast without invoking fn again.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.As(lastErr, new(*RetryableError)) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter(delay)):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
	return lastErr
}

// jitter spreads d by up to a quarter of its length.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}
