package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single Fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML for sites that build their pages with
// JavaScript. Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *Browser
	timeout time.Duration
	closed  atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the timeout for each Fetch.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcherWithBrowser returns a Fetcher sharing browser. Closing the
// Fetcher closes browser only if browser owns its Chrome instance.
func NewFetcherWithBrowser(browser *Browser, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{browser: browser, timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", leadscout.Errorf(leadscout.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Navigate(ctx, url, leadscout.WaitLoad)
	if err != nil {
		return "", err
	}
	defer page.Close()

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.Close()
}
