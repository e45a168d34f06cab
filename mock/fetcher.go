package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.Fetcher = (*Fetcher)(nil)
	_ leadscout.Prober  = (*Prober)(nil)
)

// Fetcher is a mock implementation of leadscout.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Prober is a mock implementation of leadscout.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) (bool, error)
}

func (p *Prober) Probe(ctx context.Context, url string) (bool, error) {
	return p.ProbeFn(ctx, url)
}

var _ leadscout.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of leadscout.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
