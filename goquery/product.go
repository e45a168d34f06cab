package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
)

// Product is one item of a marketplace search listing.
type Product struct {
	ASIN         string `json:"asin"`
	Title        string `json:"title,omitempty"`
	Price        string `json:"price,omitempty"`
	Stars        string `json:"stars,omitempty"`
	ReviewsCount string `json:"reviewsCount,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Record returns the product as a flat field mapping.
func (p *Product) Record() leadscout.Record {
	r := leadscout.Record{"asin": p.ASIN}
	for k, v := range map[string]string{
		"title":        p.Title,
		"price":        p.Price,
		"stars":        p.Stars,
		"reviewsCount": p.ReviewsCount,
		"imageUrl":     p.ImageURL,
		"url":          p.URL,
	} {
		if v != "" {
			r[k] = v
		}
	}
	return r
}

// ProductParser parses Amazon search result pages.
type ProductParser struct {
	// Domain is the marketplace host without "www.", e.g. "amazon.com".
	Domain string
}

// NewProductParser creates a ProductParser for the given marketplace domain.
func NewProductParser(domain string) *ProductParser {
	if domain == "" {
		domain = "amazon.com"
	}
	return &ProductParser{Domain: domain}
}

// ParseProducts returns up to limit products from a search page.
// A non-positive limit returns every product.
func (p *ProductParser) ParseProducts(html string, limit int) ([]*Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	var products []*Product
	doc.Find(`div[data-component-type="s-search-result"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		product := &Product{
			ASIN:         sel.AttrOr("data-asin", ""),
			Title:        strings.TrimSpace(sel.Find("h2 a span").First().Text()),
			Price:        strings.TrimSpace(sel.Find("span.a-price span.a-offscreen").First().Text()),
			ReviewsCount: strings.TrimSpace(sel.Find(`span[aria-label*="rating"]`).First().Text()),
			ImageURL:     sel.Find("img.s-image").First().AttrOr("src", ""),
		}
		if fields := strings.Fields(sel.Find("span.a-icon-alt").First().Text()); len(fields) > 0 {
			product.Stars = fields[0]
		}
		if href, ok := sel.Find("h2 a").First().Attr("href"); ok {
			product.URL = "https://www." + p.Domain + href
		}
		products = append(products, product)
		return limit <= 0 || len(products) < limit
	})
	return products, nil
}
