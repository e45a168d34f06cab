package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of leadscout.Scraper.
type Scraper struct {
	MetadataFn     func() leadscout.ScraperMetadata
	InputSchemaFn  func() leadscout.Schema
	OutputSchemaFn func() leadscout.Schema
	ScrapeFn       func(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) ([]leadscout.Record, error)
}

func (s *Scraper) Metadata() leadscout.ScraperMetadata {
	return s.MetadataFn()
}

func (s *Scraper) InputSchema() leadscout.Schema {
	return s.InputSchemaFn()
}

func (s *Scraper) OutputSchema() leadscout.Schema {
	return s.OutputSchemaFn()
}

func (s *Scraper) Scrape(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) ([]leadscout.Record, error) {
	return s.ScrapeFn(ctx, input, progress)
}
