package leadscout

import (
	"context"
	"math"
	"time"
)

// Place is a business listing extracted from its detail page.
type Place struct {
	ID        string    `json:"id,omitempty"`
	RunID     string    `json:"runId,omitempty"`
	Query     string    `json:"query,omitempty"`
	ScrapedAt time.Time `json:"scrapedAt,omitzero"`

	URL          string   `json:"url"`
	PlaceID      string   `json:"placeId,omitempty"`
	Title        string   `json:"title,omitempty"`
	Category     string   `json:"category,omitempty"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	PhoneE164    string   `json:"phoneE164,omitempty"`
	Website      string   `json:"website,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewsCount *int     `json:"reviewsCount,omitempty"`
	TotalScore   *float64 `json:"totalScore,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
	PriceLevel   string   `json:"priceLevel,omitempty"`
	Images       []string `json:"images,omitempty"`
	Reviews      []Review `json:"reviews,omitempty"`

	Email            string              `json:"email,omitempty"`
	AdditionalEmails []string            `json:"additionalEmails,omitempty"`
	SocialMedia      map[Platform]string `json:"socialMedia,omitempty"`
	Enrichment       *Enrichment         `json:"enrichment,omitempty"`
}

// Review is a single customer review shown on a place page.
type Review struct {
	ReviewerName string `json:"reviewerName,omitempty"`
	Rating       int    `json:"rating,omitempty"`
	Text         string `json:"text,omitempty"`
	Date         string `json:"date,omitempty"`
}

// Validate returns an error if the place contains invalid fields.
func (p *Place) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "place URL required")
	}
	if p.RunID == "" {
		return Errorf(EINVALID, "place run ID required")
	}
	return nil
}

// TotalScore ranks a place by rating weighted with review volume:
// rating * log10(reviews + 1), rounded to two decimals.
func TotalScore(rating float64, reviews int) float64 {
	score := rating * math.Log10(float64(reviews)+1)
	return math.Round(score*100) / 100
}

// Score sets TotalScore when both rating and review count are known.
func (p *Place) Score() {
	if p.Rating == nil || p.ReviewsCount == nil {
		p.TotalScore = nil
		return
	}
	score := TotalScore(*p.Rating, *p.ReviewsCount)
	p.TotalScore = &score
}

// ApplyEnrichment projects an enrichment onto the place: the first email
// becomes Email, the rest AdditionalEmails, and social profiles are copied.
func (p *Place) ApplyEnrichment(e *Enrichment) {
	if e == nil {
		return
	}
	p.Enrichment = e
	if len(e.Emails) > 0 {
		p.Email = e.Emails[0]
		if len(e.Emails) > 1 {
			p.AdditionalEmails = append([]string(nil), e.Emails[1:]...)
		}
	}
	if len(e.SocialMedia) > 0 {
		p.SocialMedia = make(map[Platform]string, len(e.SocialMedia))
		for k, v := range e.SocialMedia {
			p.SocialMedia[k] = v
		}
	}
}

// Record returns the place as a flat field mapping. Absent fields are omitted.
func (p *Place) Record() Record {
	r := Record{"url": p.URL}
	set := func(key, value string) {
		if value != "" {
			r[key] = value
		}
	}
	set("placeId", p.PlaceID)
	set("title", p.Title)
	set("category", p.Category)
	set("address", p.Address)
	set("phone", p.Phone)
	set("phoneE164", p.PhoneE164)
	set("website", p.Website)
	set("openingHours", p.OpeningHours)
	set("priceLevel", p.PriceLevel)
	set("email", p.Email)
	set("query", p.Query)
	if p.Rating != nil {
		r["rating"] = *p.Rating
	}
	if p.ReviewsCount != nil {
		r["reviewsCount"] = *p.ReviewsCount
	}
	if p.TotalScore != nil {
		r["totalScore"] = *p.TotalScore
	}
	if len(p.Images) > 0 {
		r["images"] = p.Images
	}
	if len(p.Reviews) > 0 {
		r["reviews"] = p.Reviews
	}
	if len(p.AdditionalEmails) > 0 {
		r["additionalEmails"] = p.AdditionalEmails
	}
	if len(p.SocialMedia) > 0 {
		social := make(map[string]string, len(p.SocialMedia))
		for k, v := range p.SocialMedia {
			social[string(k)] = v
		}
		r["socialMedia"] = social
	}
	return r
}

// PlaceService represents a service for storing extracted places.
type PlaceService interface {
	// CreatePlaces stores places for a run. A place whose URL was already
	// stored for the same run is skipped. Returns the number stored.
	CreatePlaces(ctx context.Context, places []*Place) (int, error)

	// FindPlaces retrieves places matching the filter.
	FindPlaces(ctx context.Context, filter PlaceFilter) ([]*Place, error)

	// DeletePlacesByRun removes all places for a run.
	DeletePlacesByRun(ctx context.Context, runID string) error
}

// PlaceFilter represents a filter for FindPlaces.
type PlaceFilter struct {
	RunID     *string  `json:"runId"`
	HasEmail  bool     `json:"hasEmail"`
	MinRating *float64 `json:"minRating"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PlaceParser parses rendered detail pages of a listings site.
type PlaceParser interface {
	// ParsePlace extracts the structured fields of a detail page.
	// Missing fields are left empty; only unparseable markup is an error.
	ParsePlace(html string, pageURL string) (*Place, error)

	// ParseImages returns photo URLs shown after opening the photo gallery.
	ParseImages(html string) []string

	// ParseReviews returns reviews shown after opening the reviews panel.
	ParseReviews(html string) []Review
}

// SeenFilter remembers place keys across the search terms of one run.
type SeenFilter interface {
	// Seen records key and reports whether it was probably recorded before.
	Seen(key string) bool
}
