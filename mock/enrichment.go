package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.SiteEnricher    = (*SiteEnricher)(nil)
	_ leadscout.MXVerifier      = (*MXVerifier)(nil)
	_ leadscout.Summarizer      = (*Summarizer)(nil)
	_ leadscout.PhoneNormalizer = (*PhoneNormalizer)(nil)
)

// SiteEnricher is a mock implementation of leadscout.SiteEnricher.
type SiteEnricher struct {
	EnrichFn func(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment
}

func (e *SiteEnricher) Enrich(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment {
	return e.EnrichFn(ctx, websiteURL, opts)
}

// MXVerifier is a mock implementation of leadscout.MXVerifier.
type MXVerifier struct {
	HasMXFn func(ctx context.Context, domain string) bool
}

func (v *MXVerifier) HasMX(ctx context.Context, domain string) bool {
	return v.HasMXFn(ctx, domain)
}

// Summarizer is a mock implementation of leadscout.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, content string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	return s.SummarizeFn(ctx, content)
}

// PhoneNormalizer is a mock implementation of leadscout.PhoneNormalizer.
type PhoneNormalizer struct {
	NormalizeFn func(raw string) string
}

func (n *PhoneNormalizer) Normalize(raw string) string {
	return n.NormalizeFn(raw)
}

var _ leadscout.ContactLinkFinder = (*ContactLinkFinder)(nil)

// ContactLinkFinder is a mock implementation of leadscout.ContactLinkFinder.
type ContactLinkFinder struct {
	FindContactLinkFn func(html, baseURL string) (string, error)
}

func (f *ContactLinkFinder) FindContactLink(html, baseURL string) (string, error) {
	return f.FindContactLinkFn(html, baseURL)
}

var _ leadscout.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of leadscout.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
