package leadscout

import "context"

// WaitStrategy selects how long navigation waits before returning.
type WaitStrategy string

// WaitStrategy values.
const (
	// WaitDOMContentLoaded returns once the document is parsed.
	WaitDOMContentLoaded WaitStrategy = "domcontentloaded"

	// WaitLoad returns after the load event.
	WaitLoad WaitStrategy = "load"
)

// Browser opens pages in a shared browsing session.
type Browser interface {
	// Navigate opens a new page and loads url. The context bounds the
	// navigation and, for implementations that support it, the page's
	// later operations. The caller must Close the page.
	Navigate(ctx context.Context, url string, wait WaitStrategy) (Page, error)

	// Close ends the browsing session.
	Close() error
}

// Page is one open browser tab.
type Page interface {
	// QueryAll returns every element matching the CSS selector.
	QueryAll(selector string) ([]Element, error)

	// ScrollPanel scrolls the element matching selector to its bottom.
	// A missing element is not an error.
	ScrollPanel(selector string) error

	// Click clicks the first element matching selector and reports
	// whether one was found.
	Click(selector string) (bool, error)

	// PressEscape sends the Escape key, dismissing overlays.
	PressEscape() error

	// HTML returns the current rendered markup.
	HTML() (string, error)

	Close() error
}

// Element is a DOM element handle.
type Element interface {
	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)

	// Text returns the element's text content.
	Text() string
}
