// Package dns checks email domains for mail exchanger records.
package dns

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/miekg/dns"
)

var _ leadscout.MXVerifier = (*MXVerifier)(nil)

// DefaultTimeout bounds a single query to one resolver.
const DefaultTimeout = 3 * time.Second

// DefaultServers returns the public resolvers queried in order.
func DefaultServers() []string {
	return []string{"8.8.8.8:53", "1.1.1.1:53"}
}

// MXVerifier reports whether a domain publishes MX records. Verdicts are
// cached for the lifetime of the verifier.
type MXVerifier struct {
	Servers []string
	Client  *dns.Client

	mu    sync.Mutex
	cache map[string]bool
}

// NewMXVerifier creates an MXVerifier querying servers, or DefaultServers
// when none are given.
func NewMXVerifier(servers ...string) *MXVerifier {
	if len(servers) == 0 {
		servers = DefaultServers()
	}
	return &MXVerifier{
		Servers: servers,
		Client:  &dns.Client{Timeout: DefaultTimeout},
		cache:   make(map[string]bool),
	}
}

// HasMX returns true if any server answers with at least one record.
// Unreachable servers count as no records.
func (v *MXVerifier) HasMX(ctx context.Context, domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}

	v.mu.Lock()
	if v.cache == nil {
		v.cache = make(map[string]bool)
	}
	if ok, hit := v.cache[domain]; hit {
		v.mu.Unlock()
		return ok
	}
	v.mu.Unlock()

	ok := v.lookup(ctx, domain)
	if ctx.Err() != nil {
		return ok
	}

	v.mu.Lock()
	v.cache[domain] = ok
	v.mu.Unlock()
	return ok
}

func (v *MXVerifier) lookup(ctx context.Context, domain string) bool {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	msg.RecursionDesired = true

	client := v.Client
	if client == nil {
		client = &dns.Client{Timeout: DefaultTimeout}
	}
	for _, server := range v.Servers {
		if ctx.Err() != nil {
			return false
		}
		resp, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil || resp == nil {
			continue
		}
		if resp.Rcode == dns.RcodeSuccess && hasMXAnswer(resp) {
			return true
		}
	}
	return false
}

func hasMXAnswer(resp *dns.Msg) bool {
	for _, rr := range resp.Answer {
		if _, ok := rr.(*dns.MX); ok {
			return true
		}
	}
	return false
}
