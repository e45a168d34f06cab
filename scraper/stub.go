package scraper

import (
	"context"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.Scraper = (*Stub)(nil)

// Stub is a placeholder for platforms that cannot be scraped reliably
// without their official API. It echoes its key input together with a
// recommendation.
type Stub struct {
	Meta           leadscout.ScraperMetadata
	Key            string
	KeyDescription string
	Message        string
	Recommendation string
	Now            func() time.Time
}

// NewFacebook returns the Facebook page stub.
func NewFacebook() *Stub {
	return &Stub{
		Meta: leadscout.ScraperMetadata{
			ID:          "facebook",
			Name:        "Facebook Page Scraper",
			Description: "Placeholder for Facebook pages; requires the Graph API",
			Category:    "Social Media",
			Tags:        []string{"social", "facebook"},
		},
		Key:            "pageUrl",
		KeyDescription: "Facebook page URL",
		Message:        "Facebook scraping requires official Graph API for reliable data",
		Recommendation: "Use Facebook Graph API for production",
	}
}

// NewInstagram returns the Instagram profile stub.
func NewInstagram() *Stub {
	return &Stub{
		Meta: leadscout.ScraperMetadata{
			ID:          "instagram",
			Name:        "Instagram Profile Scraper",
			Description: "Placeholder for Instagram profiles; requires authenticated access",
			Category:    "Social Media",
			Tags:        []string{"social", "instagram"},
		},
		Key:            "username",
		KeyDescription: "Instagram username",
		Message:        "Instagram scraping requires official Instagram API or browser automation with authentication",
		Recommendation: "Use Instagram Basic Display API for production",
	}
}

// NewLinkedIn returns the LinkedIn profile stub.
func NewLinkedIn() *Stub {
	return &Stub{
		Meta: leadscout.ScraperMetadata{
			ID:          "linkedin",
			Name:        "LinkedIn Profile Scraper",
			Description: "Placeholder for LinkedIn profiles; requires the LinkedIn API",
			Category:    "Social Media",
			Tags:        []string{"social", "linkedin", "b2b"},
		},
		Key:            "profileUrl",
		KeyDescription: "LinkedIn profile URL",
		Message:        "LinkedIn scraping requires official LinkedIn API for reliable data",
		Recommendation: "Use LinkedIn API for production",
	}
}

// NewTikTok returns the TikTok profile stub.
func NewTikTok() *Stub {
	return &Stub{
		Meta: leadscout.ScraperMetadata{
			ID:          "tiktok",
			Name:        "TikTok Profile Scraper",
			Description: "Placeholder for TikTok profiles; requires the TikTok API",
			Category:    "Social Media",
			Tags:        []string{"social", "tiktok"},
		},
		Key:            "username",
		KeyDescription: "TikTok username",
		Message:        "TikTok scraping requires browser automation or official TikTok API",
		Recommendation: "Use TikTok API for production",
	}
}

// NewTwitter returns the Twitter search stub.
func NewTwitter() *Stub {
	return &Stub{
		Meta: leadscout.ScraperMetadata{
			ID:          "twitter",
			Name:        "Twitter Search Scraper",
			Description: "Placeholder for Twitter search; requires API v2 access",
			Category:    "Social Media",
			Tags:        []string{"social", "twitter"},
		},
		Key:            "query",
		KeyDescription: "Search query",
		Message:        "Twitter scraping requires official Twitter API v2 for reliable data",
		Recommendation: "Use Twitter API v2 for production",
	}
}

func (s *Stub) Metadata() leadscout.ScraperMetadata { return s.Meta }

func (s *Stub) InputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: s.Key, Type: leadscout.FieldString, Description: s.KeyDescription, Required: true},
	}
}

func (s *Stub) OutputSchema() leadscout.Schema {
	return leadscout.Schema{
		{Name: s.Key, Type: leadscout.FieldString},
		{Name: "message", Type: leadscout.FieldString},
		{Name: "recommendation", Type: leadscout.FieldString},
		{Name: "scrapedAt", Type: leadscout.FieldString},
	}
}

// Scrape returns a single record echoing the key input.
func (s *Stub) Scrape(ctx context.Context, input leadscout.Input, _ leadscout.ProgressSink) ([]leadscout.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value := input.String(s.Key, "")
	if value == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "%s is required", s.Key)
	}
	return []leadscout.Record{{
		s.Key:            value,
		"message":        s.Message,
		"recommendation": s.Recommendation,
		"scrapedAt":      stamp(s.Now),
	}}, nil
}
