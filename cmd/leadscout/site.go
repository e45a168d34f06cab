package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/leadscout"
)

// Run executes the site command.
func (c *SiteCmd) Run(deps *Dependencies) error {
	result := deps.Enricher.Enrich(deps.Ctx, c.URL, leadscout.EnrichOptions{
		CheckContactPage: !c.NoContactPage,
		Timeout:          c.Timeout,
	})
	if err := deps.Ctx.Err(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode enrichment: %w", err)
	}
	if result.IsEmpty() {
		fmt.Fprintf(deps.Stderr, "No contact details found on %s\n", c.URL)
	}
	return nil
}
