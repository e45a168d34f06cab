package main

import (
	"fmt"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
)

// maxWebsiteWidth bounds the website column of the place listing.
const maxWebsiteWidth = 40

// Run executes the places command.
func (c *PlacesCmd) Run(deps *Dependencies) error {
	if _, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID); err != nil {
		if leadscout.ErrorCode(err) == leadscout.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'leadscout runs' to see recorded runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	filter := leadscout.PlaceFilter{
		RunID:    &c.RunID,
		HasEmail: c.HasEmail,
		Limit:    c.Limit,
	}
	if c.MinRating > 0 {
		filter.MinRating = &c.MinRating
	}
	places, err := deps.Places.FindPlaces(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		return exportRecords(deps, c.Output, c.Format, placeRecords(places))
	}

	if len(places) == 0 {
		fmt.Fprintln(deps.Stdout, "No places found.")
		return nil
	}
	for _, p := range places {
		rating := "-"
		if p.Rating != nil {
			rating = fmt.Sprintf("%.1f", *p.Rating)
		}
		phone := p.PhoneE164
		if phone == "" {
			phone = p.Phone
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n", p.Title, rating, phone, p.Email, crawl.TruncateURL(p.Website, maxWebsiteWidth))
	}
	return nil
}
