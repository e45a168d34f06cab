package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of leadscout.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *leadscout.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *leadscout.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
