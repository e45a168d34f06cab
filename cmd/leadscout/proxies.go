package main

import (
	"fmt"
	"time"
)

// Run executes the proxies command.
func (c *ProxiesCmd) Run(deps *Dependencies) error {
	if len(deps.Proxies.List()) == 0 {
		fmt.Fprintln(deps.Stdout, "No proxies configured. Set LEADSCOUT_PROXIES or pass --proxies.")
		return nil
	}

	if c.Check {
		healthy := deps.Proxies.CheckAll(deps.Ctx, c.URL)
		fmt.Fprintf(deps.Stdout, "%d of %d proxies healthy\n", healthy, len(deps.Proxies.List()))
	}

	for _, p := range deps.Proxies.List() {
		state := "active"
		if !p.Active {
			state = "inactive"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s://%s:%d  %-8s  %3.0f%%  %s\n",
			p.ID, p.Protocol, p.Host, p.Port, state, p.SuccessRate()*100, p.ResponseTime.Round(time.Millisecond))
	}
	return nil
}
