// Package readability provides a second-opinion content extractor for
// pages where the primary extractor finds nothing.
package readability

import (
	"strings"

	"github.com/fwojciec/leadscout"
	"github.com/go-shiori/go-readability"
)

var _ leadscout.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable part of rawHTML. A page with no readable
// text is ENOTFOUND.
func (e *Extractor) Extract(rawHTML string) (*leadscout.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, leadscout.Errorf(leadscout.ENOTFOUND, "no readable content")
	}

	return &leadscout.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
