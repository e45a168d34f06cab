package crawl

import (
	"context"
	"log/slog"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls op until it succeeds, waiting delays[i] before attempt i+2.
// It makes len(delays)+1 attempts and returns the last error. Each retry is
// logged at debug level when logger is non-nil.
func Retry[T any](ctx context.Context, what string, delays []time.Duration, logger *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retry", "target", what, "attempt", attempt+2, "err", err)
		}

		if err := sleep(ctx, delays[attempt]); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// FetchWithRetry fetches url with the default backoff delays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but with configurable delays.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	return Retry(ctx, url, delays, logger, func(ctx context.Context) (string, error) {
		return fetch(ctx, url)
	})
}
