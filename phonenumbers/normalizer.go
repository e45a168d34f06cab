// Package phonenumbers normalizes phone numbers shown on place pages.
package phonenumbers

import (
	"strings"

	"github.com/fwojciec/leadscout"
	"github.com/nyaruka/phonenumbers"
)

var _ leadscout.PhoneNormalizer = (*Normalizer)(nil)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "US"

// Normalizer formats numbers as E.164.
type Normalizer struct {
	// Region is the ISO 3166 country assumed for national numbers.
	Region string
}

// NewNormalizer creates a Normalizer for region. An empty region means
// DefaultRegion.
func NewNormalizer(region string) *Normalizer {
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{Region: strings.ToUpper(region)}
}

// Normalize returns raw in E.164 form, or an empty string when raw is not a
// valid number for its region.
func (n *Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	region := n.Region
	if region == "" {
		region = DefaultRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
