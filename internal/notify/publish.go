package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// PublishWithRetry attempts to publish a change with retry logic.
// It makes up to maxRetries attempts with exponential backoff.
// Returns the error from the final attempt if all retries fail.
//
// Changes are advisory (caches fall back to their TTL), so callers log the
// returned error rather than failing the mutation that produced it.
func PublishWithRetry(ctx context.Context, p Publisher, change Change, maxRetries int, logger log.FieldLogger) error {
	if p == nil {
		return nil // No publisher configured (tests, redis disabled)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := p.Publish(ctx, change)
		if err == nil {
			if attempt > 0 {
				logger.WithFields(log.Fields{
					"attempt":     attempt + 1,
					"change_type": change.Type,
				}).Debug("change published after retry")
			}
			return nil
		}

		lastErr = err

		// Don't sleep after the last attempt
		if attempt < maxRetries-1 {
			// Exponential backoff: 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			logger.WithFields(log.Fields{
				"attempt":     attempt + 1,
				"max_retries": maxRetries,
				"retry_delay": delay,
			}).WithError(err).Debug("change publish failed, retrying")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	logger.WithFields(log.Fields{
		"attempts":    maxRetries,
		"change_type": change.Type,
		"status_id":   change.StatusID,
	}).WithError(lastErr).Warn("change publish failed after all retries")

	return lastErr
}
