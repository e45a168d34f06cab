package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ leadscout.Browser = (*Browser)(nil)
	_ leadscout.Page    = (*Page)(nil)
	_ leadscout.Element = (*element)(nil)
)

// DefaultNavigationTimeout bounds a single navigation.
const DefaultNavigationTimeout = 30 * time.Second

// consentScript clicks through the cookie consent interstitial Google shows
// to new sessions in some regions.
const consentScript = `() => {
  const selectors = [
    'button[aria-label="Accept all"]',
    'button[aria-label="I agree"]',
    'button[aria-label="Alles akzeptieren"]',
    'form[action*="consent"] button'
  ];
  for (const sel of selectors) {
    const btn = document.querySelector(sel);
    if (btn) {
      btn.click();
      return true;
    }
  }
  return false;
}`

// Browser opens pages on a managed Chrome instance.
// Browser is safe for concurrent use.
type Browser struct {
	manager *BrowserManager
	owned   bool

	// NavigationTimeout bounds each Navigate call. Later page operations
	// are bounded only by the context passed to Navigate.
	NavigationTimeout time.Duration

	// UserAgent overrides Chrome's headless user agent when set.
	UserAgent string

	// DismissConsent clicks through cookie consent dialogs after navigation.
	DismissConsent bool
}

// NewBrowser launches Chrome and returns a Browser that owns it.
// Close must be called when the Browser is no longer needed.
func NewBrowser(opts ...ManagerOption) (*Browser, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	b := NewBrowserWithManager(manager)
	b.owned = true
	return b, nil
}

// NewBrowserWithManager returns a Browser on an existing manager. Close
// does not close the manager.
func NewBrowserWithManager(manager *BrowserManager) *Browser {
	return &Browser{
		manager:           manager,
		NavigationTimeout: DefaultNavigationTimeout,
		DismissConsent:    true,
	}
}

// Navigate opens a new tab and loads url. The returned Page is bound to ctx.
func (b *Browser) Navigate(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := b.manager.Acquire()
	if err != nil {
		return nil, err
	}

	raw, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.manager.Release()
		return nil, err
	}
	page := &Page{page: raw.Context(ctx), raw: raw, release: b.manager.Release}

	if err := b.load(page.page, url, wait); err != nil {
		_ = page.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	if b.DismissConsent {
		_, _ = page.page.Eval(consentScript)
	}

	return page, nil
}

func (b *Browser) load(page *rod.Page, url string, wait leadscout.WaitStrategy) error {
	if b.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      b.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			return err
		}
	}

	timeout := b.NavigationTimeout
	if timeout <= 0 {
		timeout = DefaultNavigationTimeout
	}
	nav := page.Timeout(timeout)
	defer nav.CancelTimeout()

	if wait == leadscout.WaitDOMContentLoaded {
		waitDOM := nav.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := nav.Navigate(url); err != nil {
			return err
		}
		waitDOM()
		return nil
	}

	if err := nav.Navigate(url); err != nil {
		return err
	}
	return nav.WaitLoad()
}

// Close closes the browser if this Browser launched it.
func (b *Browser) Close() error {
	if !b.owned {
		return nil
	}
	return b.manager.Close()
}

// LauncherPID returns the process ID of the Chrome launcher.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}

// Page is one Chrome tab.
type Page struct {
	page    *rod.Page
	raw     *rod.Page // not bound to the navigation context, for Close
	release func()
	once    sync.Once
}

// QueryAll returns the elements currently matching selector without waiting.
func (p *Page) QueryAll(selector string) ([]leadscout.Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]leadscout.Element, len(els))
	for i, el := range els {
		out[i] = &element{el: el}
	}
	return out, nil
}

// ScrollPanel scrolls the first element matching selector to its bottom.
func (p *Page) ScrollPanel(selector string) error {
	has, el, err := p.page.Has(selector)
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	_, err = el.Eval(`() => { this.scrollTop = this.scrollHeight }`)
	return err
}

// Click clicks the first element matching selector.
func (p *Page) Click(selector string) (bool, error) {
	has, el, err := p.page.Has(selector)
	if err != nil {
		return false, err
	}
	if !has {
		return false, nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return true, err
	}
	return true, nil
}

// PressEscape sends the Escape key.
func (p *Page) PressEscape() error {
	return p.page.Keyboard.Type(input.Escape)
}

// HTML returns the rendered document.
func (p *Page) HTML() (string, error) {
	return p.page.HTML()
}

// Close closes the tab. Close is safe to call multiple times.
func (p *Page) Close() error {
	var err error
	p.once.Do(func() {
		err = p.raw.Close()
		if p.release != nil {
			p.release()
		}
	})
	return err
}

type element struct {
	el *rod.Element
}

func (e *element) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *element) Text() string {
	s, err := e.el.Text()
	if err != nil {
		return ""
	}
	return s
}
