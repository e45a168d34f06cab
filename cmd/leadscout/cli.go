package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/scraper"
)

// PlaceScraper runs a maps search and returns the extracted places.
type PlaceScraper interface {
	Places(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error)
}

// ProxyChecker lists the configured proxies and checks their health.
type ProxyChecker interface {
	List() []leadscout.ProxyEndpoint
	CheckAll(ctx context.Context, testURL string) int
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Runs     leadscout.RunService
	Places   leadscout.PlaceService
	Exporter leadscout.RecordExporter
	Scrapers leadscout.ScraperRegistry
	Maps     PlaceScraper
	Enricher leadscout.SiteEnricher
	Proxies  ProxyChecker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string `name:"db" env:"LEADSCOUT_DB" help:"SQLite database path"`
	ProxyList string `name:"proxies" env:"LEADSCOUT_PROXIES" help:"Comma separated proxy URLs"`
	ProxyMode string `name:"proxy-mode" default:"round-robin" enum:"best,random,round-robin" help:"Proxy selection policy"`
	Verbose   bool   `short:"v" help:"Log debug output to stderr"`

	Headless     bool   `default:"true" negatable:"" help:"Run Chrome without a window"`
	BrowserProxy string `name:"browser-proxy" env:"LEADSCOUT_BROWSER_PROXY" help:"Proxy for Chrome as host:port (no credentials)"`

	Maps     MapsCmd     `cmd:"" help:"Search map listings and extract places"`
	Site     SiteCmd     `cmd:"" help:"Collect contact details from a website"`
	Scrape   ScrapeCmd   `cmd:"" help:"Run a scraper by ID"`
	Scrapers ScrapersCmd `cmd:"" help:"List available scrapers"`
	Runs     RunsCmd     `cmd:"" help:"List recorded runs"`
	Places   PlacesCmd   `cmd:"" help:"List or export the places of a run"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a run and its places"`
	Proxies  ProxiesCmd  `cmd:"" help:"List configured proxies and check their health"`
}

// MapsCmd is the "maps" subcommand.
type MapsCmd struct {
	Term           []string `short:"t" name:"term" help:"Search term (repeatable)"`
	Location       string   `short:"l" help:"Location appended to every search term"`
	Job            string   `short:"j" type:"existingfile" help:"YAML job file"`
	MaxResults     int      `short:"n" name:"max-results" help:"Places per search term (default 100)"`
	BatchSize      int      `short:"b" name:"batch-size" help:"Detail pages opened concurrently (default 15)"`
	ExtractReviews bool     `name:"reviews" help:"Extract reviews"`
	ExtractImages  bool     `name:"images" help:"Extract images"`
	EnrichContacts bool     `short:"e" name:"enrich" help:"Collect contact details from business websites"`
	VerifyMX       bool     `name:"verify-mx" help:"Drop emails whose domain has no MX record"`
	Output         string   `short:"o" help:"Export places to file (.json, .jsonl, .csv)"`
	Format         string   `short:"f" help:"Export format, overriding the file extension"`
}

// SiteCmd is the "site" subcommand.
type SiteCmd struct {
	URL           string        `arg:"" help:"Website URL"`
	NoContactPage bool          `name:"no-contact-page" help:"Only read the home page"`
	Timeout       time.Duration `default:"10s" help:"Timeout per page fetch"`
	VerifyMX      bool          `name:"verify-mx" help:"Drop emails whose domain has no MX record"`
	Render        bool          `help:"Render pages with Chrome before reading them"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	ID     string            `arg:"" help:"Scraper ID (see 'leadscout scrapers')"`
	Set    map[string]string `short:"s" help:"Input field as key=value (repeatable)"`
	Input  string            `short:"i" type:"existingfile" help:"YAML or JSON input file"`
	Output string            `short:"o" help:"Export records to file (.json, .jsonl, .csv)"`
	Format string            `short:"f" help:"Export format, overriding the file extension"`
	Render bool              `help:"Render pages with Chrome (website, amazon)"`
}

// ScrapersCmd is the "scrapers" subcommand.
type ScrapersCmd struct {
	Schema bool `help:"Show input fields"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Scraper string `help:"Only runs of this scraper"`
	Limit   int    `short:"n" default:"20" help:"Maximum runs shown"`
}

// PlacesCmd is the "places" subcommand.
type PlacesCmd struct {
	RunID     string  `arg:"" name:"run-id" help:"Run ID"`
	HasEmail  bool    `name:"has-email" help:"Only places with an email"`
	MinRating float64 `name:"min-rating" help:"Only places rated at least this"`
	Limit     int     `short:"n" help:"Maximum places"`
	Output    string  `short:"o" help:"Export places to file (.json, .jsonl, .csv)"`
	Format    string  `short:"f" help:"Export format, overriding the file extension"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" name:"run-id" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}

// ProxiesCmd is the "proxies" subcommand.
type ProxiesCmd struct {
	Check bool   `help:"Send a test request through every proxy"`
	URL   string `name:"url" default:"https://httpbin.org/ip" help:"Test URL for --check"`
}
