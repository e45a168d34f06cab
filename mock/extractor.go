package mock

import "github.com/fwojciec/leadscout"

var (
	_ leadscout.Extractor        = (*Extractor)(nil)
	_ leadscout.ContactExtractor = (*ContactExtractor)(nil)
)

// Extractor is a mock implementation of leadscout.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*leadscout.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*leadscout.ExtractResult, error) {
	return e.ExtractFn(html)
}

// ContactExtractor is a mock implementation of leadscout.ContactExtractor.
type ContactExtractor struct {
	ExtractFn func(html string, pageURL string) *leadscout.Enrichment
}

func (e *ContactExtractor) Extract(html string, pageURL string) *leadscout.Enrichment {
	return e.ExtractFn(html, pageURL)
}
