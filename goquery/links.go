package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
)

var _ leadscout.ContactLinkFinder = (*ContactLinkFinder)(nil)

// contactKeywords mark anchor text that leads to a contact or about page.
var contactKeywords = []string{"contact", "about", "reach", "touch"}

// ContactLinkFinder locates a contact or about page link on a home page.
type ContactLinkFinder struct{}

// NewContactLinkFinder creates a new ContactLinkFinder.
func NewContactLinkFinder() *ContactLinkFinder {
	return &ContactLinkFinder{}
}

// FindContactLink returns the first anchor whose text contains a contact
// keyword. Root-relative hrefs are resolved against baseURL; absolute
// http(s) hrefs are returned unchanged. Other hrefs are skipped.
func (f *ContactLinkFinder) FindContactLink(html string, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", leadscout.Errorf(leadscout.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !hasContactKeyword(sel.Text()) {
			return true
		}
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		switch {
		case isNonHTTPLink(href):
			return true
		case strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//"):
			found = resolveURL(base, href)
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
			found = href
		}
		return found == ""
	})
	return found, nil
}

func hasContactKeyword(text string) bool {
	text = strings.ToLower(text)
	for _, kw := range contactKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips the fragment.
// Returns "" if href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
