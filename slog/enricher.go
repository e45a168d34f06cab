package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.SiteEnricher = (*LoggingEnricher)(nil)
	_ leadscout.Summarizer   = (*LoggingSummarizer)(nil)
)

// LoggingEnricher wraps a SiteEnricher and logs what each website yielded.
type LoggingEnricher struct {
	next   leadscout.SiteEnricher
	logger *slog.Logger
}

// NewLoggingEnricher creates a new LoggingEnricher.
func NewLoggingEnricher(next leadscout.SiteEnricher, logger *slog.Logger) *LoggingEnricher {
	return &LoggingEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs the result counts.
func (e *LoggingEnricher) Enrich(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) (result *leadscout.Enrichment) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", websiteURL,
			"contact_page", opts.CheckContactPage,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"emails", len(result.Emails),
				"phones", len(result.Phones),
				"social", len(result.SocialMedia),
				"addresses", len(result.Addresses),
			)
		}
		e.logger.Debug("enrich", attrs...)
	}(time.Now())
	return e.next.Enrich(ctx, websiteURL, opts)
}

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   leadscout.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next leadscout.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, content string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"input_chars", len(content),
			"summary_chars", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, content)
}
