package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/leadscout"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	s, ok := deps.Scrapers.Get(c.ID)
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: scraper %q not found. Use 'leadscout scrapers' to see available scrapers.\n", c.ID)
		return leadscout.Errorf(leadscout.ENOTFOUND, "scraper %q not found", c.ID)
	}

	input := leadscout.Input{}
	if c.Input != "" {
		loaded, err := loadInputFile(c.Input)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
		input = loaded
	}
	for k, v := range c.Set {
		input[k] = v
	}

	run := &leadscout.Run{Scraper: c.ID, Query: runQuery(input)}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	progress := func(msg string) {
		fmt.Fprintf(deps.Stderr, "  %s\n", msg)
	}
	records, scrapeErr := s.Scrape(deps.Ctx, input, progress)

	upd := leadscout.RunUpdate{Status: leadscout.RunCompleted, ResultCount: len(records)}
	if scrapeErr != nil {
		upd.Status = leadscout.RunFailed
		upd.Error = scrapeErr.Error()
	}
	if _, err := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), run.ID, upd); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}
	if scrapeErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(scrapeErr))
		return scrapeErr
	}

	if c.Output != "" {
		return exportRecords(deps, c.Output, c.Format, records)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []leadscout.Record{}
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// runQuery picks the input field that best describes a run.
func runQuery(input leadscout.Input) string {
	for _, key := range []string{"search_terms", "query", "url", "username", "pageUrl", "profileUrl"} {
		if v := input.Strings(key); len(v) > 0 {
			return strings.Join(v, ", ")
		}
	}
	return ""
}
