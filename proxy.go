package leadscout

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"time"
)

// ProxyQuality selects the proxy selection policy.
type ProxyQuality string

// ProxyQuality values.
const (
	ProxyBest       ProxyQuality = "best"
	ProxyRandom     ProxyQuality = "random"
	ProxyRoundRobin ProxyQuality = "round-robin"
)

// ProxyEndpoint describes a proxy server and its observed health.
type ProxyEndpoint struct {
	ID       string `json:"id"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
	Protocol string `json:"protocol"`

	Active       bool          `json:"active"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	ResponseTime time.Duration `json:"responseTime"`
	LastUsed     time.Time     `json:"lastUsed,omitzero"`
}

// URL returns the connection URL, including credentials when set.
func (p *ProxyEndpoint) URL() string {
	protocol := p.Protocol
	if protocol == "" {
		protocol = "http"
	}
	u := url.URL{
		Scheme: protocol,
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u.String()
}

// SuccessRate returns the fraction of successful uses, or 1 when unused.
func (p *ProxyEndpoint) SuccessRate() float64 {
	total := p.SuccessCount + p.FailureCount
	if total == 0 {
		return 1
	}
	return float64(p.SuccessCount) / float64(total)
}

// ProxySelector chooses proxies and receives their outcomes.
type ProxySelector interface {
	// SelectProxy returns an active proxy under the given policy.
	// A nil endpoint means a direct connection.
	SelectProxy(ctx context.Context, quality ProxyQuality) (*ProxyEndpoint, error)

	// ReportOutcome records whether a request through the proxy succeeded.
	ReportOutcome(id string, success bool)
}
