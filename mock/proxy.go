package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.ProxySelector = (*ProxySelector)(nil)

// ProxySelector is a mock implementation of leadscout.ProxySelector.
type ProxySelector struct {
	SelectProxyFn   func(ctx context.Context, quality leadscout.ProxyQuality) (*leadscout.ProxyEndpoint, error)
	ReportOutcomeFn func(id string, success bool)
}

func (s *ProxySelector) SelectProxy(ctx context.Context, quality leadscout.ProxyQuality) (*leadscout.ProxyEndpoint, error) {
	return s.SelectProxyFn(ctx, quality)
}

func (s *ProxySelector) ReportOutcome(id string, success bool) {
	s.ReportOutcomeFn(id, success)
}
