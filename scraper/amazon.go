package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
	"github.com/fwojciec/leadscout/goquery"
)

var _ leadscout.Scraper = (*Amazon)(nil)

// Amazon input defaults.
const (
	DefaultAmazonDomain     = "amazon.com"
	DefaultAmazonMaxResults = 10
)

// Amazon scrapes one static search result page of an Amazon marketplace.
type Amazon struct {
	Fetcher leadscout.Fetcher
	Logger  *slog.Logger
	Now     func() time.Time

	// RetryDelays are waited between attempts to fetch the search page.
	RetryDelays []time.Duration
}

// NewAmazon creates an Amazon scraper.
func NewAmazon(fetcher leadscout.Fetcher, logger *slog.Logger) *Amazon {
	return &Amazon{Fetcher: fetcher, Logger: logger, RetryDelays: crawl.DefaultRetryDelays()}
}

func (a *Amazon) Metadata() leadscout.ScraperMetadata {
	return leadscout.ScraperMetadata{
		ID:          "amazon",
		Name:        "Amazon Product Scraper",
		Description: "Products from an Amazon search result page",
		Category:    "E-commerce",
		Tags:        []string{"ecommerce", "amazon", "products"},
	}
}

func (a *Amazon) InputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "query", Type: leadscout.FieldString, Description: "Search query", Required: true},
		{Name: "domain", Type: leadscout.FieldString, Description: "Marketplace domain", Default: DefaultAmazonDomain},
		{Name: "max_results", Type: leadscout.FieldInteger, Default: DefaultAmazonMaxResults},
	}
}

func (a *Amazon) OutputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "asin", Type: leadscout.FieldString},
		{Name: "title", Type: leadscout.FieldString},
		{Name: "price", Type: leadscout.FieldString},
		{Name: "stars", Type: leadscout.FieldString},
		{Name: "reviewsCount", Type: leadscout.FieldString},
		{Name: "imageUrl", Type: leadscout.FieldString},
		{Name: "url", Type: leadscout.FieldString},
		{Name: "scrapedAt", Type: leadscout.FieldString},
	}
}

// SearchURL returns the search page URL for query on domain.
func SearchURL(domain, query string) string {
	return "https://www." + domain + "/s?k=" + url.QueryEscape(strings.TrimSpace(query))
}

// Scrape fetches the search page and returns one record per product.
func (a *Amazon) Scrape(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) ([]leadscout.Record, error) {
	logger := loggerOrDiscard(a.Logger)

	query := strings.TrimSpace(input.String("query", ""))
	if query == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "query is required")
	}
	domain := strings.TrimPrefix(strings.TrimSpace(input.String("domain", DefaultAmazonDomain)), "www.")
	if domain == "" {
		domain = DefaultAmazonDomain
	}
	limit := input.Int("max_results", input.Int("maxResults", DefaultAmazonMaxResults))
	if a.Fetcher == nil {
		return nil, leadscout.Errorf(leadscout.EINTERNAL, "amazon scraper not configured")
	}

	searchURL := SearchURL(domain, query)
	crawl.Report(progress, logger, "Searching %s for %q", domain, query)
	html, err := crawl.FetchWithRetryDelays(ctx, searchURL, a.Fetcher.Fetch, logger, a.RetryDelays)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetch %s: %w", searchURL, err)
	}

	products, err := goquery.NewProductParser(domain).ParseProducts(html, limit)
	if err != nil {
		return nil, err
	}

	now := stamp(a.Now)
	records := make([]leadscout.Record, len(products))
	for i, p := range products {
		r := p.Record()
		r["scrapedAt"] = now
		records[i] = r
	}
	crawl.Report(progress, logger, "Found %d products", len(records))
	return records, nil
}
