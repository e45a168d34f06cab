package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
)

var _ leadscout.Scraper = (*Maps)(nil)

// Maps input defaults.
const (
	DefaultMaxResults = 100
)

// PlaceDiscoverer collects candidate place URLs for a search query.
type PlaceDiscoverer interface {
	Discover(ctx context.Context, query string, targetCount int, progress leadscout.ProgressSink) (*crawl.DiscoverySet, error)
}

// PlaceExtractor extracts place details from detail page URLs.
type PlaceExtractor interface {
	ExtractAll(ctx context.Context, urls []string, batchSize int, opts crawl.ExtractOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error)
}

// MapsOptions are the decoded inputs of a maps run.
type MapsOptions struct {
	SearchTerms    []string
	Location       string
	MaxResults     int
	ExtractReviews bool
	ExtractImages  bool
	EnrichContacts bool
	BatchSize      int
}

// ParseMapsOptions decodes input. search_terms may be a list or a single
// string; query is accepted in its place.
func ParseMapsOptions(input leadscout.Input) (MapsOptions, error) {
	terms := input.Strings("search_terms")
	if len(terms) == 0 {
		terms = input.Strings("query")
	}
	opts := MapsOptions{
		SearchTerms:    terms,
		Location:       strings.TrimSpace(input.String("location", "")),
		MaxResults:     input.Int("max_results", input.Int("maxResults", DefaultMaxResults)),
		ExtractReviews: input.Bool("extract_reviews", false),
		ExtractImages:  input.Bool("extract_images", false),
		EnrichContacts: input.Bool("enrich_contacts", false),
		BatchSize:      input.Int("batch_size", crawl.DefaultBatchSize),
	}
	if len(opts.SearchTerms) == 0 {
		return opts, leadscout.Errorf(leadscout.EINVALID, "search_terms required")
	}
	if opts.MaxResults <= 0 {
		return opts, leadscout.Errorf(leadscout.EINVALID, "max_results must be positive")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = crawl.DefaultBatchSize
	}
	return opts, nil
}

// Maps searches map listings for each search term, extracts place details
// and optionally enriches them from the business websites.
type Maps struct {
	Discoverer PlaceDiscoverer
	Extractor  PlaceExtractor

	// NewSeen returns the filter that drops places already found for an
	// earlier search term in the same run. Nil disables the check.
	NewSeen func() leadscout.SeenFilter

	Logger *slog.Logger
	Now    func() time.Time
}

// NewMaps creates a Maps scraper.
func NewMaps(discoverer PlaceDiscoverer, extractor PlaceExtractor, newSeen func() leadscout.SeenFilter, logger *slog.Logger) *Maps {
	return &Maps{
		Discoverer: discoverer,
		Extractor:  extractor,
		NewSeen:    newSeen,
		Logger:     logger,
	}
}

func (m *Maps) Metadata() leadscout.ScraperMetadata {
	return leadscout.ScraperMetadata{
		ID:          "maps",
		Name:        "Google Maps Scraper",
		Description: "Business listings from Google Maps with optional website contact enrichment",
		Category:    "Maps & Location",
		Tags:        []string{"maps", "google", "business", "leads", "local"},
	}
}

func (m *Maps) InputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "search_terms", Type: leadscout.FieldArray, Description: "List of search terms", Required: true},
		{Name: "location", Type: leadscout.FieldString, Description: "Location to search in"},
		{Name: "max_results", Type: leadscout.FieldInteger, Description: "Places per search term", Default: DefaultMaxResults},
		{Name: "extract_reviews", Type: leadscout.FieldBoolean, Default: false},
		{Name: "extract_images", Type: leadscout.FieldBoolean, Default: false},
		{Name: "enrich_contacts", Type: leadscout.FieldBoolean, Description: "Visit websites for emails and social profiles", Default: false},
		{Name: "batch_size", Type: leadscout.FieldInteger, Description: "Detail pages opened at once", Default: crawl.DefaultBatchSize},
	}
}

func (m *Maps) OutputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "title", Type: leadscout.FieldString, Description: "Business name"},
		{Name: "address", Type: leadscout.FieldString, Description: "Full address"},
		{Name: "phone", Type: leadscout.FieldString, Description: "Phone number"},
		{Name: "phoneE164", Type: leadscout.FieldString, Description: "Phone number in E.164 form"},
		{Name: "email", Type: leadscout.FieldString, Description: "Email address (if enrich_contacts)"},
		{Name: "website", Type: leadscout.FieldString, Description: "Website URL"},
		{Name: "rating", Type: leadscout.FieldNumber, Description: "Rating score"},
		{Name: "reviewsCount", Type: leadscout.FieldInteger, Description: "Number of reviews"},
		{Name: "totalScore", Type: leadscout.FieldNumber, Description: "Rating weighted by review volume"},
		{Name: "category", Type: leadscout.FieldString, Description: "Business category"},
		{Name: "socialMedia", Type: leadscout.FieldObject, Description: "Social media links (if enrich_contacts)"},
	}
}

// Scrape runs Places and flattens the result into records.
func (m *Maps) Scrape(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) ([]leadscout.Record, error) {
	opts, err := ParseMapsOptions(input)
	if err != nil {
		return nil, err
	}
	places, err := m.Places(ctx, opts, progress)
	records := make([]leadscout.Record, len(places))
	for i, p := range places {
		r := p.Record()
		r["scrapedAt"] = p.ScrapedAt.UTC().Format(time.RFC3339)
		records[i] = r
	}
	return records, err
}

// Places searches every term in turn. A failed search contributes no
// places; only cancellation stops the run, returning what was extracted
// so far together with the context error. When no term's search page
// could be opened the last search error is returned.
func (m *Maps) Places(ctx context.Context, opts MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
	logger := loggerOrDiscard(m.Logger)
	if m.Discoverer == nil || m.Extractor == nil {
		return nil, leadscout.Errorf(leadscout.EINTERNAL, "maps scraper not configured")
	}
	if len(opts.SearchTerms) == 0 {
		return nil, leadscout.Errorf(leadscout.EINVALID, "search_terms required")
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = crawl.DefaultBatchSize
	}

	var seen leadscout.SeenFilter
	if m.NewSeen != nil {
		seen = m.NewSeen()
	}

	crawl.Report(progress, logger, "Maps scraper starting (enrich_contacts=%t)", opts.EnrichContacts)

	var all []*leadscout.Place
	var searchErr error
	opened := 0
	for _, term := range opts.SearchTerms {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		query := term
		if opts.Location != "" {
			crawl.Report(progress, logger, "Searching: %s in %s", term, opts.Location)
			query = term + " " + opts.Location
		} else {
			crawl.Report(progress, logger, "Searching: %s", term)
		}

		var urls []string
		set, err := m.Discoverer.Discover(ctx, query, opts.MaxResults, progress)
		switch {
		case err != nil && ctx.Err() != nil:
			return all, ctx.Err()
		case err != nil:
			logger.Warn("search failed", "query", query, "error", err)
			searchErr = err
		default:
			opened++
			urls = set.URLs()
		}
		crawl.Report(progress, logger, "Found %d places for '%s'", len(urls), term)

		urls = unseen(urls, seen, opts.MaxResults)
		if len(urls) == 0 {
			continue
		}

		places, err := m.Extractor.ExtractAll(ctx, urls, batchSize, crawl.ExtractOptions{
			MaxResults:     opts.MaxResults,
			ExtractReviews: opts.ExtractReviews,
			ExtractImages:  opts.ExtractImages,
			EnrichContacts: opts.EnrichContacts,
			Query:          term,
		}, progress)
		now := m.now()
		for _, p := range places {
			if p.ScrapedAt.IsZero() {
				p.ScrapedAt = now
			}
		}
		all = append(all, places...)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			logger.Warn("extraction failed", "query", query, "error", err)
		}
	}

	if opened == 0 {
		return all, searchErr
	}
	crawl.Report(progress, logger, "Complete! Extracted %d places", len(all))
	return all, nil
}

// unseen returns up to limit URLs not found for an earlier term. URLs past
// the limit are left unrecorded so a later term can still extract them.
func unseen(urls []string, seen leadscout.SeenFilter, limit int) []string {
	out := make([]string, 0, min(len(urls), limit))
	for _, u := range urls {
		if len(out) == limit {
			break
		}
		if seen == nil || !seen.Seen(u) {
			out = append(out, u)
		}
	}
	return out
}

func (m *Maps) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}
