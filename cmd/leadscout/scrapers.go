package main

import (
	"fmt"
	"strings"
)

// Run executes the scrapers command.
func (c *ScrapersCmd) Run(deps *Dependencies) error {
	for _, s := range deps.Scrapers.List() {
		meta := s.Metadata()
		fmt.Fprintf(deps.Stdout, "%-10s %-22s %s\n", meta.ID, meta.Name, meta.Description)
		if !c.Schema {
			continue
		}
		for _, f := range s.InputSchema() {
			var flags []string
			if f.Required {
				flags = append(flags, "required")
			}
			if f.Default != nil {
				flags = append(flags, fmt.Sprintf("default %v", f.Default))
			}
			line := fmt.Sprintf("    %-18s %-8s %s", f.Name, f.Type, f.Description)
			if len(flags) > 0 {
				line += " (" + strings.Join(flags, ", ") + ")"
			}
			fmt.Fprintln(deps.Stdout, line)
		}
	}
	return nil
}
