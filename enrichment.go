package leadscout

import (
	"context"
	"time"
)

// Platform identifies a social media network.
type Platform string

// Supported social media platforms.
const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformPinterest Platform = "pinterest"
	PlatformSnapchat  Platform = "snapchat"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformTelegram  Platform = "telegram"
)

// Platforms lists every supported platform in matching order.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformYouTube,
	PlatformTikTok,
	PlatformPinterest,
	PlatformSnapchat,
	PlatformWhatsApp,
	PlatformTelegram,
}

// Cardinality limits applied by Enrichment.Finalize.
const (
	MaxEmails    = 5
	MaxPhones    = 5
	MaxAddresses = 3
)

// Enrichment holds contact details mined from a website.
type Enrichment struct {
	Emails         []string            `json:"emails"`
	Phones         []string            `json:"phones"`
	SocialMedia    map[Platform]string `json:"socialMedia"`
	Addresses      []string            `json:"addresses"`
	ContactPageURL string              `json:"contactPageUrl,omitempty"`

	// Summary is a short description of the business, when a summarizer
	// was configured and a contact or about page was found.
	Summary string `json:"summary,omitempty"`
}

// NewEnrichment returns an empty Enrichment with initialized collections.
func NewEnrichment() *Enrichment {
	return &Enrichment{
		Emails:      []string{},
		Phones:      []string{},
		SocialMedia: map[Platform]string{},
		Addresses:   []string{},
	}
}

// Merge folds src into e. Emails, phones and addresses are appended and only
// deduplicated by Finalize. A platform already present in e is never
// overwritten.
func (e *Enrichment) Merge(src *Enrichment) {
	if src == nil {
		return
	}
	if e.SocialMedia == nil {
		e.SocialMedia = map[Platform]string{}
	}
	e.Emails = append(e.Emails, src.Emails...)
	e.Phones = append(e.Phones, src.Phones...)
	e.Addresses = append(e.Addresses, src.Addresses...)
	for platform, url := range src.SocialMedia {
		if _, ok := e.SocialMedia[platform]; !ok {
			e.SocialMedia[platform] = url
		}
	}
	if src.ContactPageURL != "" {
		e.ContactPageURL = src.ContactPageURL
	}
	if src.Summary != "" && e.Summary == "" {
		e.Summary = src.Summary
	}
}

// Finalize deduplicates emails, phones and addresses, keeping first
// occurrences, and enforces the cardinality limits.
func (e *Enrichment) Finalize() {
	e.Emails = dedupe(e.Emails, MaxEmails)
	e.Phones = dedupe(e.Phones, MaxPhones)
	e.Addresses = dedupe(e.Addresses, MaxAddresses)
	if e.SocialMedia == nil {
		e.SocialMedia = map[Platform]string{}
	}
}

// IsEmpty reports whether no contact detail was found.
func (e *Enrichment) IsEmpty() bool {
	return e == nil || (len(e.Emails) == 0 && len(e.Phones) == 0 &&
		len(e.SocialMedia) == 0 && len(e.Addresses) == 0 && e.ContactPageURL == "")
}

func dedupe(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, min(len(values), limit))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ContactExtractor mines contact details from a single page.
type ContactExtractor interface {
	// Extract parses html and returns the contact details found in it.
	// pageURL resolves relative links. Extract performs no network I/O
	// and never fails; heuristics that cannot run contribute nothing.
	Extract(html string, pageURL string) *Enrichment
}

// EnrichOptions configures a single enrichment.
type EnrichOptions struct {
	// CheckContactPage enables locating and merging a contact or about page.
	CheckContactPage bool

	// Timeout bounds each page fetch.
	Timeout time.Duration
}

// SiteEnricher collects contact details from a business website.
type SiteEnricher interface {
	// Enrich crawls the website home page and, if requested, a discovered
	// contact page. It never fails: errors yield whatever partial result
	// had accumulated. The returned Enrichment is always finalized.
	Enrich(ctx context.Context, websiteURL string, opts EnrichOptions) *Enrichment
}

// MXVerifier checks whether an email domain accepts mail.
type MXVerifier interface {
	HasMX(ctx context.Context, domain string) bool
}

// Summarizer condenses page content into a short business description.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// PhoneNormalizer converts a phone number into E.164 form.
// It returns an empty string if the number cannot be parsed.
type PhoneNormalizer interface {
	Normalize(raw string) string
}

// ContactLinkFinder locates a contact or about page link on a home page.
type ContactLinkFinder interface {
	// FindContactLink returns the first matching link resolved against
	// baseURL, or an empty string if none was found.
	FindContactLink(html string, baseURL string) (string, error)
}

// TokenCounter counts model tokens in text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
