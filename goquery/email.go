package goquery

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// excludedEmailFragments mark placeholder domains and role accounts.
var excludedEmailFragments = []string{
	"example.com",
	"yourdomain.com",
	"domain.com",
	"test.com",
	"email.com",
	"noreply",
	"no-reply",
	"donotreply",
	"privacy@",
	"legal@",
	"abuse@",
	"postmaster@",
	"admin@",
	"webmaster@",
	"info@example",
	"contact@example",
	"support@example",
}

var lowTrustTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

var assetExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// IsValidEmail reports whether email is plausibly well formed: it has an
// @, a dotted domain and a length between 5 and 100.
func IsValidEmail(email string) bool {
	if len(email) < 5 || len(email) > 100 {
		return false
	}
	_, domain, ok := strings.Cut(email, "@")
	return ok && strings.Contains(domain, ".")
}

// IsBusinessEmail reports whether email looks like a real commercial
// contact rather than a placeholder or role account.
func IsBusinessEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, fragment := range excludedEmailFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	for _, tld := range lowTrustTLDs {
		if strings.HasSuffix(lower, tld) {
			return false
		}
	}
	return true
}

// mailtoAddress returns the address of a mailto: href, or "" if href is
// not a mailto link.
func mailtoAddress(href string) string {
	href = strings.TrimSpace(href)
	if len(href) < 7 || !strings.EqualFold(href[:7], "mailto:") {
		return ""
	}
	addr, _, _ := strings.Cut(href[7:], "?")
	return strings.TrimSpace(addr)
}

// emailCollector accumulates lower-cased emails in first-seen order.
type emailCollector struct {
	seen   map[string]struct{}
	emails []string
}

func newEmailCollector() *emailCollector {
	return &emailCollector{seen: make(map[string]struct{})}
}

func (c *emailCollector) add(email string, business bool) {
	if !IsValidEmail(email) {
		return
	}
	if business && !IsBusinessEmail(email) {
		return
	}
	email = strings.ToLower(email)
	if _, ok := c.seen[email]; ok {
		return
	}
	c.seen[email] = struct{}{}
	c.emails = append(c.emails, email)
}

func (c *emailCollector) scan(text string) {
	for _, match := range emailPattern.FindAllString(text, -1) {
		if isAssetName(match) {
			continue
		}
		c.add(match, true)
	}
}

// isAssetName reports whether an email-shaped match is really a retina
// asset file name such as logo@2x.png.
func isAssetName(match string) bool {
	lower := strings.ToLower(match)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
