package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
	"golang.org/x/sync/errgroup"
)

// Batch extraction defaults.
const (
	DefaultBatchSize     = 15
	DefaultItemTimeout   = 60 * time.Second
	DefaultPageSettle    = 1 * time.Second
	DefaultPanelSettle   = 1 * time.Second
	DefaultWindowPause   = 200 * time.Millisecond
	DefaultEnrichTimeout = 3 * time.Second
	DefaultReviewScrolls = 2

	DefaultPhotosButton  = `button[aria-label*="Photo"]`
	DefaultReviewsButton = `button[aria-label*="Reviews"]`
	DefaultReviewsPanel  = `div[role="main"]`
)

// ExtractOptions configures a BatchExtractor run.
type ExtractOptions struct {
	// MaxResults truncates the URL list. Zero means no limit.
	MaxResults int

	ExtractReviews bool
	ExtractImages  bool
	EnrichContacts bool

	// Query is recorded on every extracted place.
	Query string
}

// BatchExtractor fetches detail pages in fixed-size windows. Items of a
// window run concurrently; windows run one after another. A failing item
// is logged and dropped without affecting its siblings.
type BatchExtractor struct {
	Browser  leadscout.Browser
	Parser   leadscout.PlaceParser
	Enricher leadscout.SiteEnricher
	Phones   leadscout.PhoneNormalizer
	Logger   *slog.Logger

	ItemTimeout   time.Duration
	PageSettle    time.Duration
	PanelSettle   time.Duration
	ScrollSettle  time.Duration
	WindowPause   time.Duration
	EnrichTimeout time.Duration
	ReviewScrolls int

	PhotosButton  string
	ReviewsButton string
	ReviewsPanel  string
}

// NewBatchExtractor returns a BatchExtractor with default tuning.
func NewBatchExtractor(browser leadscout.Browser, parser leadscout.PlaceParser, logger *slog.Logger) *BatchExtractor {
	return &BatchExtractor{
		Browser:       browser,
		Parser:        parser,
		Logger:        logger,
		ItemTimeout:   DefaultItemTimeout,
		PageSettle:    DefaultPageSettle,
		PanelSettle:   DefaultPanelSettle,
		ScrollSettle:  DefaultScrollSettle,
		WindowPause:   DefaultWindowPause,
		EnrichTimeout: DefaultEnrichTimeout,
		ReviewScrolls: DefaultReviewScrolls,
		PhotosButton:  DefaultPhotosButton,
		ReviewsButton: DefaultReviewsButton,
		ReviewsPanel:  DefaultReviewsPanel,
	}
}

// itemResult is the outcome of one window slot.
type itemResult struct {
	position int
	place    *leadscout.Place
	err      error
}

// ExtractAll extracts a place from each URL and returns the successes in
// input order. A nil browser, or a context canceled before the first window,
// is an error. Cancellation later returns the places extracted so far
// together with the context error.
func (b *BatchExtractor) ExtractAll(ctx context.Context, urls []string, batchSize int, opts ExtractOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
	if b.Browser == nil {
		return nil, leadscout.Errorf(leadscout.EUNAVAILABLE, "no browser session")
	}
	if b.Parser == nil {
		return nil, leadscout.Errorf(leadscout.EINTERNAL, "no place parser")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if opts.MaxResults > 0 && len(urls) > opts.MaxResults {
		urls = urls[:opts.MaxResults]
	}
	logger := loggerOrDiscard(b.Logger)

	places := make([]*leadscout.Place, 0, len(urls))
	for start := 0; start < len(urls); start += batchSize {
		if start > 0 {
			if err := sleep(ctx, b.WindowPause); err != nil {
				return places, err
			}
		}
		end := min(start+batchSize, len(urls))
		Report(progress, logger, "Extracting details: %d/%d", end, len(urls))

		for _, r := range b.extractWindow(ctx, urls[start:end], opts) {
			if r.err != nil {
				logger.Warn("place extraction failed", "url", urls[start+r.position], "err", r.err)
				continue
			}
			places = append(places, r.place)
		}

		if err := ctx.Err(); err != nil {
			return places, err
		}
	}

	logger.Debug("batch extraction finished", "urls", len(urls), "places", len(places))
	return places, nil
}

// extractWindow runs one task per URL and returns results by position.
func (b *BatchExtractor) extractWindow(ctx context.Context, urls []string, opts ExtractOptions) []itemResult {
	results := make([]itemResult, len(urls))

	var g errgroup.Group
	g.SetLimit(len(urls))
	for i, u := range urls {
		g.Go(func() error {
			place, err := b.extract(ctx, u, opts)
			results[i] = itemResult{position: i, place: place, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// extract opens one detail page and assembles its place.
func (b *BatchExtractor) extract(ctx context.Context, pageURL string, opts ExtractOptions) (place *leadscout.Place, err error) {
	defer func() {
		if r := recover(); r != nil {
			place, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if b.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.ItemTimeout)
		defer cancel()
	}

	page, err := b.Browser.Navigate(ctx, pageURL, leadscout.WaitDOMContentLoaded)
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			loggerOrDiscard(b.Logger).Debug("close place page", "url", pageURL, "err", cerr)
		}
	}()

	if err := sleep(ctx, b.PageSettle); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	place, err = b.Parser.ParsePlace(html, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse place: %w", err)
	}
	if place == nil {
		return nil, fmt.Errorf("parse place: no place in page")
	}

	if opts.ExtractImages {
		place.Images = b.images(ctx, page)
	}
	if opts.ExtractReviews {
		place.Reviews = b.reviews(ctx, page)
	}
	if opts.EnrichContacts && place.Website != "" && b.Enricher != nil {
		timeout := b.EnrichTimeout
		if timeout <= 0 {
			timeout = DefaultEnrichTimeout
		}
		e := b.Enricher.Enrich(ctx, place.Website, leadscout.EnrichOptions{
			CheckContactPage: false,
			Timeout:          timeout,
		})
		place.ApplyEnrichment(e)
	}
	if b.Phones != nil && place.Phone != "" {
		place.PhoneE164 = b.Phones.Normalize(place.Phone)
	}

	place.Query = opts.Query
	place.Score()
	return place, nil
}

// images opens the photo gallery and parses it. Errors yield no images.
func (b *BatchExtractor) images(ctx context.Context, page leadscout.Page) []string {
	logger := loggerOrDiscard(b.Logger)
	clicked, err := page.Click(b.PhotosButton)
	if err != nil || !clicked {
		return nil
	}
	defer func() {
		if err := page.PressEscape(); err != nil {
			logger.Debug("dismiss photo gallery", "err", err)
		}
	}()
	if err := sleep(ctx, b.PanelSettle); err != nil {
		return nil
	}
	html, err := page.HTML()
	if err != nil {
		return nil
	}
	return b.Parser.ParseImages(html)
}

// reviews opens the reviews panel, scrolls it and parses it.
func (b *BatchExtractor) reviews(ctx context.Context, page leadscout.Page) []leadscout.Review {
	clicked, err := page.Click(b.ReviewsButton)
	if err != nil || !clicked {
		return nil
	}
	if err := sleep(ctx, b.PanelSettle); err != nil {
		return nil
	}
	for range b.ReviewScrolls {
		if err := page.ScrollPanel(b.ReviewsPanel); err != nil {
			break
		}
		if err := sleep(ctx, b.ScrollSettle); err != nil {
			return nil
		}
	}
	html, err := page.HTML()
	if err != nil {
		return nil
	}
	return b.Parser.ParseReviews(html)
}
