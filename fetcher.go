package leadscout

import "context"

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	// Fetch requests the URL and returns its body.
	// A non-200 response is an error. The context controls timeout
	// and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Prober checks whether a URL responds successfully without downloading it.
type Prober interface {
	// Probe reports whether a HEAD request to url returned 200.
	// A network failure is returned as an error.
	Probe(ctx context.Context, url string) (bool, error)
}

// DomainLimiter rate limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
