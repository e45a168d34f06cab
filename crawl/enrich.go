package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.SiteEnricher = (*Enricher)(nil)

// DefaultFetchTimeout bounds each page fetch when EnrichOptions.Timeout is unset.
const DefaultFetchTimeout = 10 * time.Second

// maxSummaryInput caps the markdown sent to the summarizer.
const maxSummaryInput = 8000

// DefaultContactPaths are probed on the site root, in order.
func DefaultContactPaths() []string {
	return []string{
		"/contact",
		"/contact-us",
		"/contactus",
		"/about",
		"/about-us",
		"/aboutus",
		"/get-in-touch",
		"/reach-us",
		"/support",
		"/help",
	}
}

// Enricher collects contact details from a business website: the home page
// and, when requested, one contact or about page.
//
// Only Fetcher and Contacts are required. The other collaborators each
// switch on one step: Prober, Links and Sitemaps locate the contact page,
// Limiter spaces requests per host, MX drops emails whose domain accepts no
// mail, and Summarizer (with Content and Converter) describes the business.
type Enricher struct {
	Fetcher  leadscout.Fetcher
	Contacts leadscout.ContactExtractor

	Prober   leadscout.Prober
	Links    leadscout.ContactLinkFinder
	Sitemaps leadscout.SitemapService
	Limiter  leadscout.DomainLimiter
	MX       leadscout.MXVerifier

	Summarizer leadscout.Summarizer
	Content    leadscout.Extractor
	Converter  leadscout.Converter

	Logger *slog.Logger

	// ContactPaths defaults to DefaultContactPaths.
	ContactPaths []string
}

// Enrich never fails. Whatever was collected before an error is returned,
// finalized.
func (e *Enricher) Enrich(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment {
	result := leadscout.NewEnrichment()
	if strings.TrimSpace(websiteURL) == "" {
		return result
	}
	logger := loggerOrDiscard(e.Logger)

	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("enrichment panicked", "url", websiteURL, "panic", r)
			}
		}()
		e.enrich(ctx, websiteURL, opts, result)
	}()

	if e.MX != nil {
		result.Emails = e.verifyEmails(ctx, result.Emails)
	}
	result.Finalize()
	return result
}

func (e *Enricher) enrich(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions, result *leadscout.Enrichment) {
	logger := loggerOrDiscard(e.Logger)
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	home, err := e.fetch(ctx, websiteURL, timeout)
	if err != nil {
		logger.Debug("fetch website", "url", websiteURL, "err", err)
	} else {
		result.Merge(e.Contacts.Extract(home, websiteURL))
	}

	if !opts.CheckContactPage || ctx.Err() != nil {
		return
	}

	contactURL := e.findContactPage(ctx, websiteURL, home, timeout)
	if contactURL == "" {
		return
	}
	result.ContactPageURL = contactURL

	page, err := e.fetch(ctx, contactURL, timeout)
	if err != nil {
		logger.Debug("fetch contact page", "url", contactURL, "err", err)
		return
	}
	result.Merge(e.Contacts.Extract(page, contactURL))

	if e.Summarizer != nil {
		result.Summary = e.summarize(ctx, page)
	}
}

// fetch waits for the host's turn and fetches rawURL. The timeout covers
// both the wait and the fetch.
func (e *Enricher) fetch(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := e.wait(ctx, rawURL); err != nil {
		return "", err
	}
	return e.Fetcher.Fetch(ctx, rawURL)
}

// probe waits for the host's turn and probes rawURL within timeout.
func (e *Enricher) probe(ctx context.Context, rawURL string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := e.wait(ctx, rawURL); err != nil {
		return false, err
	}
	return e.Prober.Probe(ctx, rawURL)
}

func (e *Enricher) wait(ctx context.Context, rawURL string) error {
	if e.Limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return e.Limiter.Wait(ctx, u.Host)
}

// findContactPage tries conventional paths, then home page anchors, then
// the sitemap. It returns "" when all fail.
func (e *Enricher) findContactPage(ctx context.Context, websiteURL, home string, timeout time.Duration) string {
	logger := loggerOrDiscard(e.Logger)
	root, err := siteRoot(websiteURL)
	if err != nil {
		logger.Debug("parse website URL", "url", websiteURL, "err", err)
		return ""
	}

	if e.Prober != nil {
		paths := e.ContactPaths
		if paths == nil {
			paths = DefaultContactPaths()
		}
		for _, path := range paths {
			candidate := root + path
			if ctx.Err() != nil {
				return ""
			}
			ok, err := e.probe(ctx, candidate, timeout)
			if err != nil {
				logger.Debug("probe contact path", "url", candidate, "err", err)
				continue
			}
			if ok {
				return candidate
			}
		}
	}

	if e.Links != nil && home != "" {
		link, err := e.Links.FindContactLink(home, websiteURL)
		if err != nil {
			logger.Debug("scan contact links", "url", websiteURL, "err", err)
		} else if link != "" {
			return link
		}
	}

	if e.Sitemaps != nil {
		urls, err := e.Sitemaps.DiscoverURLs(ctx, root, leadscout.ContactPageFilter)
		if err != nil {
			logger.Debug("sitemap contact lookup", "url", root, "err", err)
		} else if len(urls) > 0 {
			return urls[0]
		}
	}

	return ""
}

// summarize reduces a page to its main content and asks the summarizer
// for a description. Any failure yields "".
func (e *Enricher) summarize(ctx context.Context, html string) string {
	logger := loggerOrDiscard(e.Logger)
	content := html
	if e.Content != nil {
		extracted, err := e.Content.Extract(html)
		if err != nil {
			logger.Debug("extract main content", "err", err)
			return ""
		}
		content = extracted.ContentHTML
	}
	if e.Converter != nil {
		md, err := e.Converter.Convert(content)
		if err != nil {
			logger.Debug("convert to markdown", "err", err)
			return ""
		}
		content = md
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if r := []rune(content); len(r) > maxSummaryInput {
		content = string(r[:maxSummaryInput])
	}

	summary, err := e.Summarizer.Summarize(ctx, content)
	if err != nil {
		logger.Debug("summarize", "err", err)
		return ""
	}
	return strings.TrimSpace(summary)
}

// verifyEmails keeps emails whose domain has an MX record, checking each
// domain once.
func (e *Enricher) verifyEmails(ctx context.Context, emails []string) []string {
	verdicts := make(map[string]bool)
	kept := make([]string, 0, len(emails))
	for _, email := range emails {
		_, domain, ok := strings.Cut(email, "@")
		if !ok {
			continue
		}
		valid, seen := verdicts[domain]
		if !seen {
			valid = e.MX.HasMX(ctx, domain)
			verdicts[domain] = valid
		}
		if valid {
			kept = append(kept, email)
		}
	}
	return kept
}

// siteRoot returns scheme://host of rawURL.
func siteRoot(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", leadscout.Errorf(leadscout.EINVALID, "website URL has no host: %s", rawURL)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host, nil
}
