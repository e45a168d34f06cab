package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with navigation logging.
type LoggingBrowser struct {
	next   leadscout.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next leadscout.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Navigate logs the URL being opened and delegates to the wrapped browser.
func (b *LoggingBrowser) Navigate(ctx context.Context, url string, wait leadscout.WaitStrategy) (page leadscout.Page, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("navigate",
			"url", url,
			"wait", string(wait),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Navigate(ctx, url, wait)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
