package crawl

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
)

// Discovery defaults.
const (
	DefaultStallLimit         = 3
	DefaultOverCollectFactor  = 1.5
	DefaultMaxScrollAttempts  = 30
	DefaultInitialSettle      = 1 * time.Second
	DefaultScrollSettle       = 500 * time.Millisecond
	DefaultPlaceLinkSelector  = `a[href*="/maps/place/"]`
	DefaultResultsPanel       = `div[role="feed"]`
	defaultPlaceLinkSubstring = "/maps/place/"
)

// MapsSearchURL returns the Google Maps search URL for query.
func MapsSearchURL(query string) string {
	return "https://www.google.com/maps/search/" + url.QueryEscape(strings.TrimSpace(query))
}

// DiscoverySet is an insertion-ordered set of candidate URLs. It only grows,
// and ignores additions once frozen.
type DiscoverySet struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	urls   []string
	frozen bool
}

// NewDiscoverySet returns an empty set.
func NewDiscoverySet() *DiscoverySet {
	return &DiscoverySet{seen: make(map[string]struct{})}
}

// Add inserts u and reports whether it was new.
func (s *DiscoverySet) Add(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return false
	}
	if _, ok := s.seen[u]; ok {
		return false
	}
	s.seen[u] = struct{}{}
	s.urls = append(s.urls, u)
	return true
}

// Contains reports whether u is in the set.
func (s *DiscoverySet) Contains(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[u]
	return ok
}

// Len returns the number of URLs in the set.
func (s *DiscoverySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// URLs returns a copy of the URLs in insertion order.
func (s *DiscoverySet) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

// Freeze makes the set read-only.
func (s *DiscoverySet) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (s *DiscoverySet) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Discoverer collects item URLs from an infinitely scrolling results panel.
//
// A session navigates to the search URL, then alternates collecting links
// and scrolling until one of three conditions holds: the set reached
// ceil(OverCollectFactor * target), StallLimit consecutive checks found
// nothing new, or MaxScrollAttempts checks were made.
type Discoverer struct {
	Browser leadscout.Browser
	Logger  *slog.Logger

	// SearchURL builds the search page URL. Defaults to MapsSearchURL.
	SearchURL func(query string) string

	LinkSelector  string
	LinkSubstring string
	PanelSelector string

	StallLimit        int
	OverCollectFactor float64
	MaxScrollAttempts int
	InitialSettle     time.Duration
	ScrollSettle      time.Duration

	// RetryDelays are waited between attempts to open the search page.
	RetryDelays []time.Duration
}

// NewDiscoverer returns a Discoverer for Google Maps with default tuning.
// Zero-valued fields of a Discoverer literal take the same defaults, except
// InitialSettle and ScrollSettle: a zero settle does not pause.
func NewDiscoverer(browser leadscout.Browser, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		Browser:           browser,
		Logger:            logger,
		SearchURL:         MapsSearchURL,
		LinkSelector:      DefaultPlaceLinkSelector,
		LinkSubstring:     defaultPlaceLinkSubstring,
		PanelSelector:     DefaultResultsPanel,
		StallLimit:        DefaultStallLimit,
		OverCollectFactor: DefaultOverCollectFactor,
		MaxScrollAttempts: DefaultMaxScrollAttempts,
		InitialSettle:     DefaultInitialSettle,
		ScrollSettle:      DefaultScrollSettle,
		RetryDelays:       DefaultRetryDelays(),
	}
}

// Target returns the over-collection size for targetCount.
// A non-positive targetCount has no target.
func (d *Discoverer) Target(targetCount int) int {
	if targetCount <= 0 {
		return 0
	}
	factor := d.OverCollectFactor
	if factor < 1 {
		factor = 1
	}
	return int(math.Ceil(float64(targetCount) * factor))
}

// Discover runs one discovery session for query. The returned set is
// frozen. Failing to open the search page returns EUNAVAILABLE.
func (d *Discoverer) Discover(ctx context.Context, query string, targetCount int, progress leadscout.ProgressSink) (*DiscoverySet, error) {
	if d.Browser == nil {
		return nil, leadscout.Errorf(leadscout.EUNAVAILABLE, "no browser session")
	}
	cfg := d.withDefaults()
	logger := loggerOrDiscard(d.Logger)

	searchURL := cfg.SearchURL(query)
	page, err := Retry(ctx, searchURL, cfg.RetryDelays, logger, func(ctx context.Context) (leadscout.Page, error) {
		return d.Browser.Navigate(ctx, searchURL, leadscout.WaitDOMContentLoaded)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, leadscout.Errorf(leadscout.EUNAVAILABLE, "open search page for %q: %v", query, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("close search page", "err", err)
		}
	}()

	if err := sleep(ctx, cfg.InitialSettle); err != nil {
		return nil, err
	}

	set := NewDiscoverySet()
	target := cfg.Target(targetCount)
	stalled := 0
	for check := 1; ; check++ {
		if cfg.collect(page, set, logger) == 0 {
			stalled++
		} else {
			stalled = 0
		}

		if target > 0 && set.Len() >= target {
			Report(progress, logger, "Collected %d place URLs (target: %d)", set.Len(), target)
			break
		}
		if stalled >= cfg.StallLimit {
			Report(progress, logger, "No new results after %d attempts, stopping at %d places", stalled, set.Len())
			break
		}
		if check >= cfg.MaxScrollAttempts {
			logger.Info("scroll attempts exhausted", "query", query, "found", set.Len())
			break
		}

		if err := page.ScrollPanel(cfg.PanelSelector); err != nil {
			logger.Warn("scroll failed", "query", query, "err", err)
			Report(progress, logger, "No new results after %d attempts, stopping at %d places", stalled, set.Len())
			break
		}
		if err := sleep(ctx, cfg.ScrollSettle); err != nil {
			return nil, err
		}
	}

	set.Freeze()
	logger.Debug("discovery finished", "query", query, "found", set.Len())
	return set, nil
}

func (d *Discoverer) withDefaults() Discoverer {
	c := *d
	def := NewDiscoverer(d.Browser, d.Logger)
	if c.SearchURL == nil {
		c.SearchURL = def.SearchURL
	}
	if c.LinkSelector == "" {
		c.LinkSelector = def.LinkSelector
		c.LinkSubstring = def.LinkSubstring
	}
	if c.PanelSelector == "" {
		c.PanelSelector = def.PanelSelector
	}
	if c.StallLimit <= 0 {
		c.StallLimit = def.StallLimit
	}
	if c.OverCollectFactor <= 0 {
		c.OverCollectFactor = def.OverCollectFactor
	}
	if c.MaxScrollAttempts <= 0 {
		c.MaxScrollAttempts = def.MaxScrollAttempts
	}
	if c.RetryDelays == nil {
		c.RetryDelays = def.RetryDelays
	}
	return c
}

// collect adds every visible item link and returns how many were new.
func (d *Discoverer) collect(page leadscout.Page, set *DiscoverySet, logger *slog.Logger) int {
	elems, err := page.QueryAll(d.LinkSelector)
	if err != nil {
		logger.Debug("query item links", "err", err)
		return 0
	}
	added := 0
	for _, el := range elems {
		href, ok := el.Attr("href")
		if !ok || href == "" {
			continue
		}
		if d.LinkSubstring != "" && !strings.Contains(href, d.LinkSubstring) {
			continue
		}
		if set.Add(href) {
			added++
		}
	}
	return added
}
