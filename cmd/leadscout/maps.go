package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
	"github.com/fwojciec/leadscout/scraper"
)

// mapsPlan is a maps run after merging the job file with flags.
type mapsPlan struct {
	Options  scraper.MapsOptions
	VerifyMX bool
	Output   string
	Format   string
}

// plan merges the job file, if any, with flags. Flags win.
func (c *MapsCmd) plan() (*mapsPlan, error) {
	input := leadscout.Input{}
	p := &mapsPlan{}
	if c.Job != "" {
		job, err := LoadJob(c.Job)
		if err != nil {
			return nil, err
		}
		input = job.Input()
		p.VerifyMX = job.VerifyMX
		p.Output = job.Output
		p.Format = job.Format
	}

	if len(c.Term) > 0 {
		input["search_terms"] = c.Term
	}
	if c.Location != "" {
		input["location"] = c.Location
	}
	if c.MaxResults != 0 {
		input["max_results"] = c.MaxResults
	}
	if c.BatchSize != 0 {
		input["batch_size"] = c.BatchSize
	}
	if c.ExtractReviews {
		input["extract_reviews"] = true
	}
	if c.ExtractImages {
		input["extract_images"] = true
	}
	if c.EnrichContacts {
		input["enrich_contacts"] = true
	}
	p.VerifyMX = p.VerifyMX || c.VerifyMX
	if c.Output != "" {
		p.Output = c.Output
	}
	if c.Format != "" {
		p.Format = c.Format
	}

	opts, err := scraper.ParseMapsOptions(input)
	if err != nil {
		return nil, err
	}
	p.Options = opts
	return p, nil
}

// Run executes the maps command.
func (c *MapsCmd) Run(deps *Dependencies) error {
	plan, err := c.plan()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}
	opts := plan.Options

	run := &leadscout.Run{
		Scraper: "maps",
		Query:   strings.Join(opts.SearchTerms, ", "),
	}
	if opts.Location != "" {
		run.Query += " in " + opts.Location
	}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Started run %s\n", run.ID)

	progress := func(msg string) {
		fmt.Fprintf(deps.Stdout, "  %s\n", msg)
	}
	places, scrapeErr := deps.Maps.Places(deps.Ctx, opts, progress)

	for _, p := range places {
		p.RunID = run.ID
	}
	saved := 0
	if len(places) > 0 {
		// Partial results of a canceled run are still saved.
		saved, err = deps.Places.CreatePlaces(context.WithoutCancel(deps.Ctx), places)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error saving places: %s\n", leadscout.ErrorMessage(err))
			if scrapeErr == nil {
				scrapeErr = err
			}
		}
	}

	upd := leadscout.RunUpdate{Status: leadscout.RunCompleted, ResultCount: saved}
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
		fmt.Fprintf(deps.Stdout, "Saved %d places before the run stopped (run %s)\n", saved, run.ID)
		return scrapeErr
	}
	fmt.Fprintf(deps.Stdout, "Saved %d places (run %s)\n", saved, run.ID)

	if plan.Output != "" {
		return exportRecords(deps, plan.Output, plan.Format, placeRecords(places))
	}
	return nil
}

func placeRecords(places []*leadscout.Place) []leadscout.Record {
	records := make([]leadscout.Record, 0, len(places))
	for _, p := range places {
		records = append(records, p.Record())
	}
	return records
}

// exportRecords writes records to path. format overrides the extension.
func exportRecords(deps *Dependencies, path, format string, records []leadscout.Record) error {
	f := leadscout.ExportFormatFromPath(path)
	if format != "" {
		var err error
		if f, err = leadscout.ParseExportFormat(format); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
	}
	if err := deps.Exporter.Export(deps.Ctx, path, records, f); err != nil {
		fmt.Fprintf(deps.Stderr, "error exporting: %s\n", leadscout.ErrorMessage(err))
		return err
	}
	size := "?"
	if info, err := os.Stat(path); err == nil {
		size = crawl.FormatBytes(info.Size())
	}
	fmt.Fprintf(deps.Stdout, "Exported %d records to %s (%s, %s)\n", len(records), path, f, size)
	return nil
}
