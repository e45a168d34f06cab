package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
)

// Page limits.
const (
	MaxPageText   = 5000
	MaxPageLinks  = 50
	MaxPageImages = 20
)

// PageData is the generic content of a web page.
type PageData struct {
	Title         string
	Text          string
	Links         []string
	InternalLinks int
	Images        []string
	Custom        map[string][]string
}

// PageParser extracts generic content from any web page.
type PageParser struct{}

// NewPageParser creates a new PageParser.
func NewPageParser() *PageParser {
	return &PageParser{}
}

// Parse returns the title, visible text, links and images of a page, plus
// the trimmed text of every element matching each custom selector.
// Links and images are resolved against pageURL.
func (p *PageParser) Parse(html string, pageURL string, selectors map[string]string) (*PageData, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	data := &PageData{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  truncateRunes(joinedText(doc.Selection), MaxPageText),
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		if href == "" || isNonHTTPLink(href) {
			return true
		}
		if resolved := resolveURL(base, href); resolved != "" {
			data.Links = append(data.Links, resolved)
			if isSameHost(base, resolved) {
				data.InternalLinks++
			}
		}
		return len(data.Links) < MaxPageLinks
	})

	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if src := sel.AttrOr("src", ""); src != "" && !strings.HasPrefix(src, "data:") {
			data.Images = append(data.Images, resolveURL(base, src))
		}
		return len(data.Images) < MaxPageImages
	})

	if len(selectors) > 0 {
		data.Custom = make(map[string][]string, len(selectors))
		for key, selector := range selectors {
			values := []string{}
			doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
				values = append(values, strings.TrimSpace(sel.Text()))
			})
			data.Custom[key] = values
		}
	}

	return data, nil
}
