package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
)

// Ensure ContactExtractor implements leadscout.ContactExtractor.
var _ leadscout.ContactExtractor = (*ContactExtractor)(nil)

var (
	emailSectionPattern = regexp.MustCompile(`(?i)contact|footer|header`)
	phoneSectionPattern = regexp.MustCompile(`(?i)contact|phone|tel|call`)
)

// ContactExtractor mines emails, phones, social profiles and addresses
// from a single HTML page.
type ContactExtractor struct{}

// NewContactExtractor creates a new ContactExtractor.
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

// Extract parses html and returns the contact details it contains.
// Unparseable markup yields an empty result.
func (e *ContactExtractor) Extract(html string, pageURL string) *leadscout.Enrichment {
	result := leadscout.NewEnrichment()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	text := joinedText(doc.Selection)

	result.Emails = extractEmails(doc, hrefs, text, html)
	result.Phones = extractPhones(doc, hrefs, text)
	result.SocialMedia = extractSocial(hrefs, html, base)
	result.Addresses = extractAddresses(doc)
	result.Finalize()

	return result
}

func extractEmails(doc *goquery.Document, hrefs []string, text, raw string) []string {
	c := newEmailCollector()
	for _, href := range hrefs {
		if addr := mailtoAddress(href); addr != "" {
			c.add(addr, false)
		}
	}
	c.scan(text)
	c.scan(raw)
	doc.Find("footer[class], header[class], div[class]").Each(func(_ int, sel *goquery.Selection) {
		if class, _ := sel.Attr("class"); emailSectionPattern.MatchString(class) {
			c.scan(joinedText(sel))
		}
	})
	return c.emails
}

func extractPhones(doc *goquery.Document, hrefs []string, text string) []string {
	c := newPhoneCollector()
	for _, href := range hrefs {
		if number := telNumber(href); number != "" {
			c.add(number)
		}
	}
	c.scan(text)
	doc.Find("footer[class], header[class], div[class]").Each(func(_ int, sel *goquery.Selection) {
		if class, _ := sel.Attr("class"); phoneSectionPattern.MatchString(class) {
			c.scan(joinedText(sel))
		}
	})
	return c.phones
}
