package leadscout

// ExtractResult is the main content of a page with boilerplate removed.
type ExtractResult struct {
	Title string

	// ContentHTML excludes navigation, footers, sidebars and ads.
	ContentHTML string
}

// Extractor isolates the main content of an HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
