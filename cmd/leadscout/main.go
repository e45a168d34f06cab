package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/bloom"
	"github.com/fwojciec/leadscout/crawl"
	lsdns "github.com/fwojciec/leadscout/dns"
	"github.com/fwojciec/leadscout/fs"
	"github.com/fwojciec/leadscout/gemini"
	"github.com/fwojciec/leadscout/goquery"
	"github.com/fwojciec/leadscout/htmltomarkdown"
	lshttp "github.com/fwojciec/leadscout/http"
	"github.com/fwojciec/leadscout/phonenumbers"
	"github.com/fwojciec/leadscout/proxy"
	"github.com/fwojciec/leadscout/readability"
	"github.com/fwojciec/leadscout/rod"
	"github.com/fwojciec/leadscout/scraper"
	lsslog "github.com/fwojciec/leadscout/slog"
	"github.com/fwojciec/leadscout/sqlite"
	"github.com/fwojciec/leadscout/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Seen filter sizing for one maps run.
const (
	seenCapacity = 10000
	seenFPRate   = 0.001
)

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService   leadscout.RunService
	PlaceService leadscout.PlaceService

	// Browser replaces the Chrome session for maps runs when set.
	Browser leadscout.Browser

	// Chrome launch options, set from flags by Run.
	browserOpts []rod.ManagerOption
	chrome      *rod.Browser

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	m.chrome = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("leadscout"),
		kong.Description("Collect business leads from map listings and websites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'leadscout --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LEADSCOUT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	if m.RunService == nil {
		m.RunService = sqlite.NewRunService(m.DB)
	}
	if m.PlaceService == nil {
		m.PlaceService = sqlite.NewPlaceService(m.DB)
	}
	deps.Runs = m.RunService
	deps.Places = m.PlaceService
	deps.Exporter = fs.NewExporter()

	pool, err := newProxyPool(cli.ProxyList, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: proxies are written as [protocol://][user:pass@]host:port")
		return err
	}
	deps.Proxies = pool

	quality := leadscout.ProxyQuality(cli.ProxyMode)
	fetcherOpts := []lshttp.Option{}
	if len(pool.List()) > 0 {
		fetcherOpts = append(fetcherOpts, lshttp.WithProxySelector(pool, quality))
	}
	fetcher := lshttp.NewFetcher(fetcherOpts...)
	m.closers = append(m.closers, fetcher)
	m.browserOpts = browserOptions(cli)

	switch cmd {
	case "site":
		var pages leadscout.Fetcher = fetcher
		if cli.Site.Render {
			if pages, err = m.renderFetcher(cli.Site.Timeout, stderr); err != nil {
				return err
			}
		}
		deps.Enricher = m.newEnricher(ctx, pages, fetcher, cli.Site.VerifyMX, logger, stderr)
	case "maps":
		plan, err := cli.Maps.plan()
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
		var enricher leadscout.SiteEnricher
		if plan.Options.EnrichContacts {
			enricher = m.newEnricher(ctx, fetcher, fetcher, plan.VerifyMX, logger, stderr)
		}
		maps, err := m.newMaps(enricher, logger, stderr)
		if err != nil {
			return err
		}
		deps.Maps = maps
	case "scrape", "scrapers":
		var pages leadscout.Fetcher = fetcher
		var enricher leadscout.SiteEnricher
		if cmd == "scrape" {
			if cli.Scrape.Render {
				if pages, err = m.renderFetcher(rod.DefaultFetchTimeout, stderr); err != nil {
					return err
				}
			}
			enricher = m.newEnricher(ctx, pages, fetcher, false, logger, stderr)
		}
		var maps *scraper.Maps
		if cmd == "scrape" && cli.Scrape.ID == "maps" {
			maps, err = m.newMaps(enricher, logger, stderr)
			if err != nil {
				return err
			}
		} else {
			maps = scraper.NewMaps(nil, nil, newSeenFilter, logger)
		}
		deps.Scrapers = newRegistry(maps, pages, enricher, logger)
	}

	return kongCtx.Run(deps)
}

// newMaps wires the browser-backed maps scraper.
func (m *Main) newMaps(enricher leadscout.SiteEnricher, logger *slog.Logger, stderr io.Writer) (*scraper.Maps, error) {
	browser := m.Browser
	if browser == nil {
		b, err := m.chromeBrowser(stderr)
		if err != nil {
			return nil, err
		}
		browser = rod.NewLoggingBrowser(b, logger)
	}

	extractor := crawl.NewBatchExtractor(browser, goquery.NewPlaceParser(), logger)
	extractor.Phones = phonenumbers.NewNormalizer(phonenumbers.DefaultRegion)
	if enricher != nil {
		extractor.Enricher = lsslog.NewLoggingEnricher(enricher, logger)
	}

	discoverer := crawl.NewDiscoverer(browser, logger)
	return scraper.NewMaps(discoverer, extractor, newSeenFilter, logger), nil
}

// chromeBrowser launches Chrome on first use. Later calls share it.
func (m *Main) chromeBrowser(stderr io.Writer) (*rod.Browser, error) {
	if m.chrome != nil {
		return m.chrome, nil
	}
	b, err := rod.NewBrowser(m.browserOpts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, b)
	m.chrome = b
	return b, nil
}

// renderFetcher returns a fetcher of pages rendered by Chrome.
func (m *Main) renderFetcher(timeout time.Duration, stderr io.Writer) (leadscout.Fetcher, error) {
	b, err := m.chromeBrowser(stderr)
	if err != nil {
		return nil, err
	}
	return rod.NewFetcherWithBrowser(b, rod.WithFetchTimeout(timeout)), nil
}

// browserOptions maps the Chrome flags to launch options.
func browserOptions(cli *CLI) []rod.ManagerOption {
	opts := []rod.ManagerOption{rod.WithHeadless(cli.Headless)}
	if cli.BrowserProxy != "" {
		opts = append(opts, rod.WithProxyServer(cli.BrowserProxy))
	}
	return opts
}

// newEnricher wires website enrichment. Pages are read through pages and
// contact paths probed through prober. The summary step is enabled only
// when GEMINI_API_KEY is set.
func (m *Main) newEnricher(ctx context.Context, pages leadscout.Fetcher, prober leadscout.Prober, verifyMX bool, logger *slog.Logger, stderr io.Writer) *crawl.Enricher {
	enricher := &crawl.Enricher{
		Fetcher:  lsslog.NewLoggingFetcher(pages, logger),
		Contacts: goquery.NewContactExtractor(),
		Prober:   lsslog.NewLoggingProber(prober, logger),
		Links:    goquery.NewContactLinkFinder(),
		Sitemaps: lsslog.NewLoggingSitemapService(lshttp.NewSitemapService(nil), logger),
		Limiter:  crawl.NewDomainLimiter(crawl.DefaultRequestsPerSecond),
		Logger:   logger,
	}
	if verifyMX {
		enricher.MX = lsdns.NewMXVerifier()
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return enricher
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		logger.Warn("summaries disabled", "err", err)
		return enricher
	}
	summarizer := gemini.NewSummarizer(client)
	if tokens, err := gemini.NewLocalTokens(gemini.DefaultModel); err == nil {
		summarizer.Tokens = tokens
	} else {
		logger.Debug("token counter unavailable", "err", err)
	}
	enricher.Summarizer = lsslog.NewLoggingSummarizer(summarizer, logger)
	enricher.Content = trafilatura.NewExtractor(readability.NewExtractor())
	enricher.Converter = htmltomarkdown.NewConverter()
	return enricher
}

// newRegistry registers every scraper, each wrapped with logging.
func newRegistry(maps *scraper.Maps, fetcher leadscout.Fetcher, enricher leadscout.SiteEnricher, logger *slog.Logger) *scraper.Registry {
	scrapers := []leadscout.Scraper{
		maps,
		scraper.NewWebsite(fetcher, enricher, logger),
		scraper.NewAmazon(fetcher, logger),
		scraper.NewFacebook(),
		scraper.NewInstagram(),
		scraper.NewLinkedIn(),
		scraper.NewTikTok(),
		scraper.NewTwitter(),
	}
	registry := scraper.NewRegistry()
	for _, s := range scrapers {
		registry.Register(lsslog.NewLoggingScraper(s, logger))
	}
	return registry
}

// newProxyPool parses a proxy list into a pool. An empty list yields an
// empty pool and direct connections.
func newProxyPool(list string, logger *slog.Logger) (*proxy.Pool, error) {
	pool := proxy.NewPool(logger)
	endpoints, err := proxy.ParseList(list)
	if err != nil {
		return nil, err
	}
	for _, ep := range endpoints {
		if _, err := pool.Add(ep); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

func newSeenFilter() leadscout.SeenFilter {
	return bloom.NewFilter(seenCapacity, seenFPRate)
}

func defaultDBPath() string {
	if path := os.Getenv("LEADSCOUT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "leadscout.db"
	}
	dir := filepath.Join(home, ".leadscout")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "leadscout.db")
}
