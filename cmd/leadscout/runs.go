package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/leadscout"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := leadscout.RunFilter{Limit: c.Limit}
	if c.Scraper != "" {
		filter.Scraper = &c.Scraper
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'leadscout maps' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %-8s %-9s %4d  %s  %s\n",
			r.ID, r.Scraper, r.Status, r.ResultCount, r.StartedAt.Local().Format(time.DateTime), r.Query)
		if r.Error != "" {
			fmt.Fprintf(deps.Stdout, "    error: %s\n", r.Error)
		}
	}
	return nil
}
