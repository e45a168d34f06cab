// Package http fetches static pages and probes URLs over plain HTTP.
// Requests can be routed through proxies chosen by a leadscout.ProxySelector.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
)

// Default timeouts.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultProbeTimeout = 5 * time.Second
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 5 << 20

// Ensure Fetcher implements leadscout.Fetcher and leadscout.Prober.
var (
	_ leadscout.Fetcher = (*Fetcher)(nil)
	_ leadscout.Prober  = (*Fetcher)(nil)
)

// Fetcher retrieves pages with plain HTTP requests. It does not execute
// JavaScript.
type Fetcher struct {
	timeout      time.Duration
	probeTimeout time.Duration
	userAgent    string
	proxies      leadscout.ProxySelector
	quality      leadscout.ProxyQuality
	transport    http.RoundTripper

	direct *http.Client

	mu      sync.Mutex
	proxied map[string]*http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for GET requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProbeTimeout sets the timeout for HEAD probes.
// Defaults to DefaultProbeTimeout (5s) if not specified.
func WithProbeTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.probeTimeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithProxySelector routes each request through a proxy chosen by sel and
// reports every outcome back to it. A nil endpoint from sel means a
// direct connection.
func WithProxySelector(sel leadscout.ProxySelector, quality leadscout.ProxyQuality) Option {
	return func(f *Fetcher) {
		f.proxies = sel
		f.quality = quality
	}
}

// WithTransport sets the base transport for direct requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		probeTimeout: DefaultProbeTimeout,
		userAgent:    DefaultUserAgent,
		quality:      leadscout.ProxyRoundRobin,
		proxied:      make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.direct = &http.Client{Transport: f.transport}

	return f
}

// Fetch retrieves the body of url. A status other than 200 is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Probe reports whether a HEAD request to url, following redirects,
// returns 200.
func (f *Fetcher) Probe(ctx context.Context, url string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.direct.CloseIdleConnections()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.proxied {
		c.CloseIdleConnections()
	}
	return nil
}

func (f *Fetcher) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client, proxyID, err := f.client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if proxyID != "" {
		f.proxies.ReportOutcome(proxyID, proxyHealthy(resp, err))
	}
	return resp, err
}

// client returns the client for the next request and the ID of the proxy
// it routes through, if any.
func (f *Fetcher) client(ctx context.Context) (*http.Client, string, error) {
	if f.proxies == nil {
		return f.direct, "", nil
	}
	endpoint, err := f.proxies.SelectProxy(ctx, f.quality)
	if err != nil {
		return nil, "", fmt.Errorf("select proxy: %w", err)
	}
	if endpoint == nil {
		return f.direct, "", nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.proxied[endpoint.ID]; ok {
		return c, endpoint.ID, nil
	}
	proxyURL, err := url.Parse(endpoint.URL())
	if err != nil {
		return nil, "", fmt.Errorf("proxy %s: %w", endpoint.ID, err)
	}
	c := &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)}}
	f.proxied[endpoint.ID] = c
	return c, endpoint.ID, nil
}

// proxyHealthy treats transport errors, proxy authentication failures and
// gateway errors as proxy failures. Other status codes belong to the target.
func proxyHealthy(resp *http.Response, err error) bool {
	if err != nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusProxyAuthRequired, http.StatusBadGateway, http.StatusGatewayTimeout:
		return false
	}
	return true
}
