package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// retry runs f up to attempts times, doubling sleep between tries. Permanent
// errors and context cancellation stop it early.
func retry(ctx context.Context, log *zap.Logger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanentError(err) || i == attempts-1 {
			break
		}

		log.Warn("attempt failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("retry_in", sleep),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

// isPermanentError reports Google API client errors that a retry cannot fix.
func isPermanentError(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return false
}
