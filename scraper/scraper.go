// Package scraper implements the scrapers exposed by the CLI and a registry
// to look them up by ID.
package scraper

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.ScraperRegistry = (*Registry)(nil)

// Registry holds scrapers keyed by their metadata ID.
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	scrapers map[string]leadscout.Scraper
}

// NewRegistry creates a Registry holding scrapers.
func NewRegistry(scrapers ...leadscout.Scraper) *Registry {
	r := &Registry{scrapers: make(map[string]leadscout.Scraper, len(scrapers))}
	for _, s := range scrapers {
		r.Register(s)
	}
	return r
}

// Register adds s. A scraper already registered under the same ID is
// replaced.
func (r *Registry) Register(s leadscout.Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers[s.Metadata().ID] = s
}

// Get returns the scraper registered under id.
func (r *Registry) Get(id string) (leadscout.Scraper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scrapers[id]
	return s, ok
}

// List returns all scrapers ordered by ID.
func (r *Registry) List() []leadscout.Scraper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.scrapers))
	for id := range r.scrapers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]leadscout.Scraper, len(ids))
	for i, id := range ids {
		out[i] = r.scrapers[id]
	}
	return out
}

func stamp(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
