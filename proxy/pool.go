// Package proxy keeps an in-memory pool of proxy endpoints with health
// tracking and selection policies.
package proxy

import (
	"cmp"
	"context"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var _ leadscout.ProxySelector = (*Pool)(nil)

// Deactivation thresholds applied after every failure.
const (
	MinSuccessRate = 0.5
	MinUses        = 10
)

// DefaultHealthTimeout bounds one health check request.
const DefaultHealthTimeout = 10 * time.Second

// DefaultHealthURL echoes the caller's address.
const DefaultHealthURL = "https://httpbin.org/ip"

// Pool is a concurrency-safe set of proxies. An empty pool selects no proxy,
// meaning direct connections.
type Pool struct {
	Logger *slog.Logger

	// Now and Intn are replaced in tests.
	Now  func() time.Time
	Intn func(n int) int

	mu      sync.Mutex
	proxies []*leadscout.ProxyEndpoint
}

// NewPool creates an empty Pool.
func NewPool(logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{Logger: logger, Now: time.Now, Intn: rand.IntN}
}

// Add stores a copy of p as an active proxy with a fresh ID and zeroed
// statistics.
func (p *Pool) Add(endpoint leadscout.ProxyEndpoint) (*leadscout.ProxyEndpoint, error) {
	if endpoint.Host == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "proxy host required")
	}
	if endpoint.Port <= 0 || endpoint.Port > 65535 {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid proxy port %d", endpoint.Port)
	}
	if endpoint.Protocol == "" {
		endpoint.Protocol = "http"
	}
	stored := &leadscout.ProxyEndpoint{
		ID:       uuid.New().String(),
		Host:     endpoint.Host,
		Port:     endpoint.Port,
		Username: endpoint.Username,
		Password: endpoint.Password,
		Protocol: endpoint.Protocol,
		Active:   true,
	}

	p.mu.Lock()
	p.proxies = append(p.proxies, stored)
	p.mu.Unlock()

	p.logger().Info("proxy added", "host", stored.Host, "port", stored.Port)
	out := *stored
	return &out, nil
}

// Remove deletes the proxy with id and reports whether it existed.
func (p *Pool) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.proxies = slices.Delete(p.proxies, i, i+1)
	return true
}

// Get returns a copy of the proxy with id.
// Returns ENOTFOUND if it does not exist.
func (p *Pool) Get(id string) (*leadscout.ProxyEndpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return nil, leadscout.Errorf(leadscout.ENOTFOUND, "proxy not found: %s", id)
	}
	out := *p.proxies[i]
	return &out, nil
}

// List returns copies of all proxies in insertion order.
func (p *Pool) List() []leadscout.ProxyEndpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]leadscout.ProxyEndpoint, len(p.proxies))
	for i, px := range p.proxies {
		out[i] = *px
	}
	return out
}

// Stats summarizes one proxy.
type Stats struct {
	ID           string        `json:"id"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Active       bool          `json:"active"`
	SuccessRate  float64       `json:"successRate"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	ResponseTime time.Duration `json:"responseTime"`
	LastUsed     time.Time     `json:"lastUsed,omitzero"`
}

// Stats returns the statistics of every proxy.
func (p *Pool) Stats() []Stats {
	list := p.List()
	out := make([]Stats, len(list))
	for i, px := range list {
		out[i] = Stats{
			ID:           px.ID,
			Host:         px.Host,
			Port:         px.Port,
			Active:       px.Active,
			SuccessRate:  px.SuccessRate(),
			SuccessCount: px.SuccessCount,
			FailureCount: px.FailureCount,
			ResponseTime: px.ResponseTime,
			LastUsed:     px.LastUsed,
		}
	}
	return out
}

// SelectProxy picks an active proxy and stamps its LastUsed time.
// It returns nil when the pool has no active proxy.
//
//   - best: highest success rate, ties broken by lowest response time
//   - round-robin: least recently used
//   - random (or any other value): uniform choice
func (p *Pool) SelectProxy(ctx context.Context, quality leadscout.ProxyQuality) (*leadscout.ProxyEndpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var active []*leadscout.ProxyEndpoint
	for _, px := range p.proxies {
		if px.Active {
			active = append(active, px)
		}
	}
	if len(active) == 0 {
		if len(p.proxies) > 0 {
			p.logger().Warn("no active proxies available", "total", len(p.proxies))
		}
		return nil, nil
	}

	var chosen *leadscout.ProxyEndpoint
	switch quality {
	case leadscout.ProxyBest:
		chosen = slices.MaxFunc(active, func(a, b *leadscout.ProxyEndpoint) int {
			if c := cmp.Compare(a.SuccessRate(), b.SuccessRate()); c != 0 {
				return c
			}
			// Lower response time ranks higher.
			return cmp.Compare(b.ResponseTime, a.ResponseTime)
		})
	case leadscout.ProxyRoundRobin:
		chosen = slices.MinFunc(active, func(a, b *leadscout.ProxyEndpoint) int {
			return a.LastUsed.Compare(b.LastUsed)
		})
	default:
		chosen = active[p.intn(len(active))]
	}

	chosen.LastUsed = p.now()
	p.logger().Debug("proxy selected", "host", chosen.Host, "port", chosen.Port, "successRate", chosen.SuccessRate())
	out := *chosen
	return &out, nil
}

// ReportOutcome records a request through proxy id. Unknown IDs are ignored.
func (p *Pool) ReportOutcome(id string, success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return
	}
	px := p.proxies[i]
	if success {
		px.SuccessCount++
		px.LastUsed = p.now()
		return
	}
	p.recordFailure(px)
}

// HealthCheck requests testURL through proxy id. A 200 response marks the
// proxy healthy, records its response time and reactivates it; anything
// else counts as a failure.
func (p *Pool) HealthCheck(ctx context.Context, id string, testURL string) (bool, error) {
	endpoint, err := p.Get(id)
	if err != nil {
		return false, err
	}
	if testURL == "" {
		testURL = DefaultHealthURL
	}
	proxyURL, err := url.Parse(endpoint.URL())
	if err != nil {
		return false, leadscout.Errorf(leadscout.EINVALID, "proxy %s: %v", id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultHealthTimeout)
	defer cancel()

	client := &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)}}
	defer client.CloseIdleConnections()

	start := p.now()
	ok := func() bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, testURL, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			p.logger().Warn("proxy health check failed", "host", endpoint.Host, "port", endpoint.Port, "error", err)
			return false
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			p.logger().Warn("proxy health check failed", "host", endpoint.Host, "port", endpoint.Port, "status", resp.StatusCode)
			return false
		}
		return true
	}()
	elapsed := p.now().Sub(start)

	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return ok, nil
	}
	px := p.proxies[i]
	if ok {
		px.SuccessCount++
		px.ResponseTime = elapsed
		px.Active = true
		p.logger().Info("proxy healthy", "host", px.Host, "port", px.Port, "responseTime", elapsed)
	} else {
		p.recordFailure(px)
	}
	return ok, nil
}

// CheckAll health checks every proxy concurrently and returns how many
// are healthy.
func (p *Pool) CheckAll(ctx context.Context, testURL string) int {
	list := p.List()
	results := make([]bool, len(list))

	g, ctx := errgroup.WithContext(ctx)
	for i, px := range list {
		g.Go(func() error {
			ok, _ := p.HealthCheck(ctx, px.ID, testURL)
			results[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	healthy := 0
	for _, ok := range results {
		if ok {
			healthy++
		}
	}
	p.logger().Info("proxy health check complete", "healthy", healthy, "total", len(list))
	return healthy
}

// recordFailure must be called with mu held.
func (p *Pool) recordFailure(px *leadscout.ProxyEndpoint) {
	px.FailureCount++
	if px.Active && px.SuccessRate() < MinSuccessRate && px.SuccessCount+px.FailureCount > MinUses {
		px.Active = false
		p.logger().Warn("proxy deactivated due to low success rate", "host", px.Host, "port", px.Port)
	}
}

func (p *Pool) index(id string) int {
	return slices.IndexFunc(p.proxies, func(px *leadscout.ProxyEndpoint) bool {
		return px.ID == id
	})
}

func (p *Pool) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pool) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pool) intn(n int) int {
	if p.Intn == nil {
		return rand.IntN(n)
	}
	return p.Intn(n)
}

// ParseEndpoint parses "[protocol://][user:pass@]host:port". The protocol
// defaults to http.
func ParseEndpoint(raw string) (leadscout.ProxyEndpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return leadscout.ProxyEndpoint{}, leadscout.Errorf(leadscout.EINVALID, "proxy address required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return leadscout.ProxyEndpoint{}, leadscout.Errorf(leadscout.EINVALID, "invalid proxy address: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil || host == "" {
		return leadscout.ProxyEndpoint{}, leadscout.Errorf(leadscout.EINVALID, "proxy address must be host:port: %s", u.Host)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return leadscout.ProxyEndpoint{}, leadscout.Errorf(leadscout.EINVALID, "invalid proxy port: %s", portStr)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return leadscout.ProxyEndpoint{}, leadscout.Errorf(leadscout.EINVALID, "unsupported proxy protocol: %s", u.Scheme)
	}

	ep := leadscout.ProxyEndpoint{Host: host, Port: port, Protocol: u.Scheme}
	if u.User != nil {
		ep.Username = u.User.Username()
		ep.Password, _ = u.User.Password()
	}
	return ep, nil
}

// ParseList parses a comma or whitespace separated list of endpoints.
func ParseList(raw string) ([]leadscout.ProxyEndpoint, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]leadscout.ProxyEndpoint, 0, len(fields))
	for _, f := range fields {
		ep, err := ParseEndpoint(f)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}
