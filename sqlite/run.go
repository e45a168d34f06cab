package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/google/uuid"
)

var _ leadscout.RunService = (*RunService)(nil)

// RunService implements leadscout.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run with a generated ID in the running state.
func (s *RunService) CreateRun(ctx context.Context, run *leadscout.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.Status = leadscout.RunRunning
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scraper, query, status, result_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Scraper, run.Query, run.Status, run.ResultCount, run.Error,
		formatTime(run.StartedAt), "")

	return err
}

const runColumns = "id, scraper, query, status, result_count, error, started_at, finished_at"

func scanRun(row interface{ Scan(...any) error }) (*leadscout.Run, error) {
	var run leadscout.Run
	var status, startedAt, finishedAt string
	if err := row.Scan(&run.ID, &run.Scraper, &run.Query, &status, &run.ResultCount, &run.Error,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.Status = leadscout.RunStatus(status)

	var err error
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*leadscout.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leadscout.Errorf(leadscout.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Scraper != nil {
		query.WriteString(" AND scraper = ?")
		args = append(args, *filter.Scraper)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*leadscout.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FinishRun records the outcome of a run and stamps its finish time.
func (s *RunService) FinishRun(ctx context.Context, id string, upd leadscout.RunUpdate) (*leadscout.Run, error) {
	run, err := s.FindRunByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch upd.Status {
	case leadscout.RunCompleted, leadscout.RunFailed:
	default:
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid final run status %q", upd.Status)
	}

	run.Status = upd.Status
	run.ResultCount = upd.ResultCount
	run.Error = upd.Error
	run.FinishedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, result_count = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, run.Status, run.ResultCount, run.Error, formatTime(run.FinishedAt), id)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// DeleteRun permanently removes a run and its places.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return leadscout.Errorf(leadscout.ENOTFOUND, "run not found")
	}

	return nil
}
