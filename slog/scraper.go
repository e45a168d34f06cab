package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper and logs each run.
type LoggingScraper struct {
	next   leadscout.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next leadscout.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

func (s *LoggingScraper) Metadata() leadscout.ScraperMetadata { return s.next.Metadata() }

func (s *LoggingScraper) InputSchema() leadscout.Schema { return s.next.InputSchema() }

func (s *LoggingScraper) OutputSchema() leadscout.Schema { return s.next.OutputSchema() }

// Scrape delegates to the wrapped scraper and logs the record count.
func (s *LoggingScraper) Scrape(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) (records []leadscout.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scrape",
			"scraper", s.next.Metadata().ID,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, input, progress)
}
