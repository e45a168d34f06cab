package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.Browser = (*Browser)(nil)
	_ leadscout.Page    = (*Page)(nil)
	_ leadscout.Element = (*Element)(nil)
)

// Browser is a mock implementation of leadscout.Browser.
type Browser struct {
	NavigateFn func(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error)
	CloseFn    func() error
}

func (b *Browser) Navigate(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error) {
	return b.NavigateFn(ctx, url, wait)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of leadscout.Page.
type Page struct {
	QueryAllFn    func(selector string) ([]leadscout.Element, error)
	ScrollPanelFn func(selector string) error
	ClickFn       func(selector string) (bool, error)
	PressEscapeFn func() error
	HTMLFn        func() (string, error)
	CloseFn       func() error
}

func (p *Page) QueryAll(selector string) ([]leadscout.Element, error) {
	return p.QueryAllFn(selector)
}

func (p *Page) ScrollPanel(selector string) error {
	return p.ScrollPanelFn(selector)
}

func (p *Page) Click(selector string) (bool, error) {
	return p.ClickFn(selector)
}

func (p *Page) PressEscape() error {
	return p.PressEscapeFn()
}

func (p *Page) HTML() (string, error) {
	return p.HTMLFn()
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Element is a static leadscout.Element.
type Element struct {
	Attrs       map[string]string
	TextContent string
}

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) Text() string {
	return e.TextContent
}
