// Package trafilatura isolates the descriptive text of business web pages
// using go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/leadscout"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ leadscout.Extractor = (*Extractor)(nil)

// Extractor extracts the main content of about and contact pages.
//
// Small business sites often put their description in a single hero block
// that trafilatura discards as boilerplate. When that happens and Fallback
// is set, Fallback gets a second attempt.
type Extractor struct {
	Fallback leadscout.Extractor

	// KeepTables retains tables such as opening hours in the content.
	KeepTables bool
}

// NewExtractor creates a new Extractor.
func NewExtractor(fallback leadscout.Extractor) *Extractor {
	return &Extractor{Fallback: fallback, KeepTables: true}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*leadscout.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, leadscout.Errorf(leadscout.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   !e.KeepTables,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return e.fallback(rawHTML, err)
	}

	if strings.TrimSpace(result.ContentText) == "" && e.Fallback != nil {
		return e.fallback(rawHTML, nil)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	return &leadscout.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func (e *Extractor) fallback(rawHTML string, cause error) (*leadscout.ExtractResult, error) {
	if e.Fallback == nil {
		return nil, cause
	}
	res, err := e.Fallback.Extract(rawHTML)
	if err != nil {
		if cause != nil {
			return nil, cause
		}
		return nil, err
	}
	return res, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
