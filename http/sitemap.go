package http

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/leadscout"
)

// DefaultMaxSitemaps bounds how many sitemap documents one discovery reads.
const DefaultMaxSitemaps = 20

// Ensure SitemapService implements leadscout.SitemapService.
var _ leadscout.SitemapService = (*SitemapService)(nil)

// SitemapService lists page URLs from robots.txt sitemap directives or
// /sitemap.xml.
type SitemapService struct {
	client    *http.Client
	userAgent string

	// MaxSitemaps bounds the number of sitemap documents fetched,
	// including nested index entries.
	MaxSitemaps int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{
		client:      client,
		userAgent:   DefaultUserAgent,
		MaxSitemaps: DefaultMaxSitemaps,
	}
}

// DiscoverURLs returns the deduplicated page URLs published for the site
// root of baseURL, in sitemap order, keeping those that pass filter.
// A site without sitemaps yields an empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *leadscout.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid base URL: %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	queue := s.robotsSitemaps(ctx, root)
	if len(queue) == 0 {
		queue = []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}
	}

	w := &sitemapWalk{
		svc:      s,
		visited:  make(map[string]bool),
		seenURLs: make(map[string]bool),
		filter:   filter,
		urls:     []string{},
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		nested, err := w.read(ctx, next)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		queue = append(queue, nested...)
	}
	return w.urls, nil
}

type sitemapWalk struct {
	svc      *SitemapService
	visited  map[string]bool
	seenURLs map[string]bool
	filter   *leadscout.URLFilter
	urls     []string
}

// read fetches one sitemap, records its page URLs and returns nested
// sitemap URLs from an index.
func (w *sitemapWalk) read(ctx context.Context, sitemapURL string) ([]string, error) {
	if w.visited[sitemapURL] || len(w.visited) >= w.svc.MaxSitemaps {
		return nil, nil
	}
	w.visited[sitemapURL] = true

	resp, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return locs(root, "sitemap"), nil
	}
	for _, u := range locs(root, "url") {
		if w.seenURLs[u] || !w.filter.Match(u) {
			continue
		}
		w.seenURLs[u] = true
		w.urls = append(w.urls, u)
	}
	return nil, nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if u := strings.TrimSpace(loc.Text()); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// robotsSitemaps returns the Sitemap: directives of robots.txt. Any failure
// yields nil.
func (s *SitemapService) robotsSitemaps(ctx context.Context, root *url.URL) []string {
	resp, err := s.get(ctx, root.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			sitemaps = append(sitemaps, value)
		}
	}
	return sitemaps
}

func (s *SitemapService) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp, nil
}
