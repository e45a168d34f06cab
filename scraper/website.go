package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
	"github.com/fwojciec/leadscout/goquery"
)

var _ leadscout.Scraper = (*Website)(nil)

// DefaultWebsiteEnrichTimeout bounds each page fetch during enrichment.
const DefaultWebsiteEnrichTimeout = 10 * time.Second

// Website scrapes the generic content of one page and, unless disabled,
// the contact details of its site.
type Website struct {
	Fetcher  leadscout.Fetcher
	Parser   *goquery.PageParser
	Enricher leadscout.SiteEnricher
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewWebsite creates a Website scraper. enricher may be nil.
func NewWebsite(fetcher leadscout.Fetcher, enricher leadscout.SiteEnricher, logger *slog.Logger) *Website {
	return &Website{
		Fetcher:  fetcher,
		Parser:   goquery.NewPageParser(),
		Enricher: enricher,
		Logger:   logger,
	}
}

func (w *Website) Metadata() leadscout.ScraperMetadata {
	return leadscout.ScraperMetadata{
		ID:          "website",
		Name:        "Website Scraper",
		Description: "Text, links, images and contact details of any web page",
		Category:    "General",
		Tags:        []string{"website", "contacts", "generic"},
	}
}

func (w *Website) InputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "url", Type: leadscout.FieldString, Description: "Page URL", Required: true},
		{Name: "selectors", Type: leadscout.FieldObject, Description: "Named CSS selectors whose text to collect"},
		{Name: "extract_contacts", Type: leadscout.FieldBoolean, Description: "Mine the site for contact details", Default: true},
	}
}

func (w *Website) OutputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: "url", Type: leadscout.FieldString},
		{Name: "title", Type: leadscout.FieldString},
		{Name: "text", Type: leadscout.FieldString, Description: "Visible text, truncated"},
		{Name: "links", Type: leadscout.FieldArray},
		{Name: "images", Type: leadscout.FieldArray},
		{Name: "customData", Type: leadscout.FieldObject},
		{Name: "emails", Type: leadscout.FieldArray},
		{Name: "phones", Type: leadscout.FieldArray},
		{Name: "socialMedia", Type: leadscout.FieldObject},
		{Name: "addresses", Type: leadscout.FieldArray},
		{Name: "contactPageUrl", Type: leadscout.FieldString},
		{Name: "summary", Type: leadscout.FieldString},
		{Name: "scrapedAt", Type: leadscout.FieldString},
	}
}

// Scrape fetches the page and returns a single record. A failed contact
// lookup leaves the contact fields out rather than failing the scrape.
func (w *Website) Scrape(ctx context.Context, input leadscout.Input, progress leadscout.ProgressSink) ([]leadscout.Record, error) {
	logger := loggerOrDiscard(w.Logger)

	pageURL := input.String("url", "")
	if pageURL == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "url is required")
	}
	if u, err := url.Parse(pageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid url: %s", pageURL)
	}
	if w.Fetcher == nil {
		return nil, leadscout.Errorf(leadscout.EINTERNAL, "website scraper not configured")
	}

	crawl.Report(progress, logger, "Fetching %s", pageURL)
	html, err := w.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	parser := w.Parser
	if parser == nil {
		parser = goquery.NewPageParser()
	}
	data, err := parser.Parse(html, pageURL, input.StringMap("selectors"))
	if err != nil {
		return nil, err
	}

	record := leadscout.Record{
		"url":       pageURL,
		"scrapedAt": stamp(w.Now),
		"text":      data.Text,
		"links":     nonNil(data.Links),
		"images":    nonNil(data.Images),
	}
	if data.Title != "" {
		record["title"] = data.Title
	}
	if data.Custom != nil {
		record["customData"] = data.Custom
	}

	if w.Enricher != nil && input.Bool("extract_contacts", input.Bool("extractContacts", true)) {
		crawl.Report(progress, logger, "Extracting contact details")
		e := w.Enricher.Enrich(ctx, pageURL, leadscout.EnrichOptions{
			CheckContactPage: true,
			Timeout:          DefaultWebsiteEnrichTimeout,
		})
		addEnrichment(record, e)
		logger.Info("website enriched", "url", pageURL, "emails", len(e.Emails), "social", len(e.SocialMedia))
	}

	return []leadscout.Record{record}, nil
}

func addEnrichment(r leadscout.Record, e *leadscout.Enrichment) {
	if e == nil {
		return
	}
	if len(e.Emails) > 0 {
		r["emails"] = e.Emails
	}
	if len(e.Phones) > 0 {
		r["phones"] = e.Phones
	}
	if len(e.SocialMedia) > 0 {
		social := make(map[string]string, len(e.SocialMedia))
		for k, v := range e.SocialMedia {
			social[string(k)] = v
		}
		r["socialMedia"] = social
	}
	if len(e.Addresses) > 0 {
		r["addresses"] = e.Addresses
	}
	if e.ContactPageURL != "" {
		r["contactPageUrl"] = e.ContactPageURL
	}
	if e.Summary != "" {
		r["summary"] = e.Summary
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
