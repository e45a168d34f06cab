// Package crawl orchestrates discovery, batched extraction and website
// enrichment on top of the fetch, browser and parsing interfaces of the
// root package.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

var discardLogger = slog.New(slog.DiscardHandler)

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}

// Report sends a formatted progress message to sink. A nil sink is a no-op
// and a panicking sink is recovered and logged.
func Report(sink leadscout.ProgressSink, logger *slog.Logger, format string, args ...any) {
	if sink == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	defer func() {
		if r := recover(); r != nil {
			loggerOrDiscard(logger).Warn("progress sink panicked", "message", msg, "panic", r)
		}
	}()
	sink(msg)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
