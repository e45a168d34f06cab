package leadscout

import (
	"context"
	"regexp"
)

// SitemapService lists the URLs a website publishes in its sitemaps.
type SitemapService interface {
	// DiscoverURLs reads robots.txt sitemap directives, falling back to
	// /sitemap.xml, and resolves sitemap indexes recursively.
	// A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern.
type URLFilter struct {
	// Include, when set, keeps only URLs matching at least one pattern.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. Applied after Include.
	Exclude []*regexp.Regexp
}

// ContactPageFilter matches sitemap URLs that look like contact or about pages.
var ContactPageFilter = &URLFilter{
	Include: []*regexp.Regexp{regexp.MustCompile(`(?i)/[^/]*(contact|about|reach|touch)[^/]*/?$`)},
	Exclude: []*regexp.Regexp{regexp.MustCompile(`(?i)\.(pdf|jpe?g|png|gif|zip)$`)},
}

// Match reports whether url passes the filter. A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
