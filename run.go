package leadscout

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a scraper run.
type RunStatus string

// RunStatus values.
const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run records one execution of a scraper.
type Run struct {
	ID          string    `json:"id"`
	Scraper     string    `json:"scraper"`
	Query       string    `json:"query"`
	Status      RunStatus `json:"status"`
	ResultCount int       `json:"resultCount"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt,omitzero"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Scraper == "" {
		return Errorf(EINVALID, "run scraper required")
	}
	return nil
}

// RunService represents a service for managing runs.
type RunService interface {
	// CreateRun creates a new run in the running state.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FinishRun records the outcome of a run.
	// Returns ENOTFOUND if run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// DeleteRun permanently removes a run and its places.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID      *string    `json:"id"`
	Scraper *string    `json:"scraper"`
	Status  *RunStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunUpdate represents the outcome recorded by FinishRun.
type RunUpdate struct {
	Status      RunStatus `json:"status"`
	ResultCount int       `json:"resultCount"`
	Error       string    `json:"error"`
}
