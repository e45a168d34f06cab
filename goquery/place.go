package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
)

// Ensure PlaceParser implements leadscout.PlaceParser.
var _ leadscout.PlaceParser = (*PlaceParser)(nil)

// Google Maps detail page selectors.
const (
	titleSelector    = "h1.DUwDvf, h1"
	categorySelector = `button[jsaction*="category"]`
	ratingSelector   = `div.F7nice span[aria-label*="stars"]`
	reviewsSelector  = `div.F7nice span[aria-label*="reviews"]`
	addressSelector  = `button[data-item-id="address"]`
	phoneSelector    = `button[data-item-id*="phone"]`
	websiteSelector  = `a[data-item-id="authority"]`
	hoursSelector    = `button[data-item-id="oh"]`
	priceSelector    = `span[aria-label*="Price"]`
	imageSelector    = `img[src*="googleusercontent"]`
	reviewSelector   = "div[data-review-id]"
)

const (
	maxImages  = 10
	maxReviews = 10
)

var (
	placeIDPattern = regexp.MustCompile(`!1s([^!]+)`)
	decimalPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	groupedPattern = regexp.MustCompile(`[0-9][0-9,]*`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
)

// PlaceParser parses Google Maps place detail pages.
type PlaceParser struct{}

// NewPlaceParser creates a new PlaceParser.
func NewPlaceParser() *PlaceParser {
	return &PlaceParser{}
}

// ParsePlace extracts the listing fields of a rendered place page.
func (p *PlaceParser) ParsePlace(html string, pageURL string) (*leadscout.Place, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	place := &leadscout.Place{
		URL:      pageURL,
		PlaceID:  PlaceID(pageURL),
		Title:    firstText(doc, titleSelector),
		Category: firstText(doc, categorySelector),
		Address:  firstText(doc, addressSelector),
	}

	if label := firstAttr(doc, ratingSelector, "aria-label"); label != "" {
		if v, err := strconv.ParseFloat(decimalPattern.FindString(label), 64); err == nil {
			place.Rating = &v
		}
	}
	if label := firstAttr(doc, reviewsSelector, "aria-label"); label != "" {
		digits := strings.ReplaceAll(groupedPattern.FindString(label), ",", "")
		if v, err := strconv.Atoi(digits); err == nil {
			place.ReviewsCount = &v
		}
	}
	if label := firstAttr(doc, phoneSelector, "aria-label"); label != "" {
		label = strings.ReplaceAll(label, "Phone: ", "")
		label = strings.ReplaceAll(label, "Call phone number", "")
		place.Phone = strings.TrimSpace(label)
	}
	place.Website = firstAttr(doc, websiteSelector, "href")
	place.OpeningHours = firstAttr(doc, hoursSelector, "aria-label")
	place.PriceLevel = firstText(doc, priceSelector)
	place.Score()

	return place, nil
}

// ParseImages returns up to 10 distinct photo URLs.
func (p *PlaceParser) ParseImages(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var images []string
	seen := make(map[string]struct{})
	doc.Find(imageSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return true
		}
		if _, dup := seen[src]; !dup {
			seen[src] = struct{}{}
			images = append(images, src)
		}
		return len(images) < maxImages
	})
	return images
}

// ParseReviews returns up to 10 reviews. Review containers with no
// recognizable content are skipped.
func (p *PlaceParser) ParseReviews(html string) []leadscout.Review {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var reviews []leadscout.Review
	seen := make(map[string]struct{})
	doc.Find(reviewSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		id := sel.AttrOr("data-review-id", "")
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}

		r := leadscout.Review{
			ReviewerName: strings.TrimSpace(sel.Find("div.d4r55").First().Text()),
			Text:         strings.TrimSpace(sel.Find("span.wiI7pd").First().Text()),
			Date:         strings.TrimSpace(sel.Find("span.rsqaWe").First().Text()),
		}
		if label, ok := sel.Find(`span[role="img"]`).First().Attr("aria-label"); ok {
			if v, err := strconv.Atoi(digitPattern.FindString(label)); err == nil {
				r.Rating = v
			}
		}
		if r != (leadscout.Review{}) {
			reviews = append(reviews, r)
		}
		return len(reviews) < maxReviews
	})
	return reviews
}

// PlaceID returns the place identifier embedded in a Maps URL as !1s<id>!,
// or "" if absent.
func PlaceID(mapsURL string) string {
	m := placeIDPattern.FindStringSubmatch(mapsURL)
	if m == nil {
		return ""
	}
	return m[1]
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func firstAttr(doc *goquery.Document, selector, attr string) string {
	v, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}
