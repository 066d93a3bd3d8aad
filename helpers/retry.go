package helpers

import (
	"context"
	"fmt"
	"time"

	"auctionhunter/logger"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Log         *logger.Logger

	// Retryable decides whether an error is worth another attempt.
	// nil retries every error.
	Retryable func(error) bool
}

// Do executes fn with exponential back-off retry logic. A cancelled
// context stops the loop between attempts; a non-retryable error is
// returned immediately.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if r.Retryable != nil && !r.Retryable(lastErr) {
			return lastErr
		}

		if attempt < r.MaxAttempts {
			if r.Log != nil {
				r.Log.Warn().
					Str("operation", operationName).
					Int("attempt", attempt).
					Int("max_attempts", r.MaxAttempts).
					Dur("delay", delay).
					Err(lastErr).
					Msg("retrying")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
