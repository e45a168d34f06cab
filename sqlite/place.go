package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/google/uuid"
)

var _ leadscout.PlaceService = (*PlaceService)(nil)

// PlaceService implements leadscout.PlaceService using SQLite. Each place is
// stored as its JSON encoding next to the columns used for filtering.
type PlaceService struct {
	db *DB
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(db *DB) *PlaceService {
	return &PlaceService{db: db}
}

// CreatePlaces stores places in one transaction. A place whose URL is
// already stored for its run is skipped and keeps no ID.
func (s *PlaceService) CreatePlaces(ctx context.Context, places []*leadscout.Place) (int, error) {
	for _, p := range places {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// next holds the next position per run.
	next := make(map[string]int)
	nextPosition := func(runID string) (int, error) {
		if pos, ok := next[runID]; ok {
			return pos, nil
		}
		var pos int
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM places WHERE run_id = ?", runID,
		).Scan(&pos)
		next[runID] = pos
		return pos, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO places (id, run_id, fingerprint, url, title, email, rating, position, record, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	stored := 0
	for _, p := range places {
		id := uuid.New().String()
		scrapedAt := p.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = now
		}
		record, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("encode place %s: %w", p.URL, err)
		}
		var rating any
		if p.Rating != nil {
			rating = *p.Rating
		}
		position, err := nextPosition(p.RunID)
		if err != nil {
			return 0, err
		}

		result, err := stmt.ExecContext(ctx, id, p.RunID, Fingerprint(p.URL), p.URL, p.Title, p.Email,
			rating, position, string(record), formatTime(scrapedAt))
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			continue
		}
		p.ID = id
		p.ScrapedAt = scrapedAt
		next[p.RunID] = position + 1
		stored++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return stored, nil
}

// FindPlaces retrieves places matching the filter in storage order.
func (s *PlaceService) FindPlaces(ctx context.Context, filter leadscout.PlaceFilter) ([]*leadscout.Place, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, record, scraped_at FROM places WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.HasEmail {
		query.WriteString(" AND email != ''")
	}
	if filter.MinRating != nil {
		query.WriteString(" AND rating >= ?")
		args = append(args, *filter.MinRating)
	}

	query.WriteString(" ORDER BY run_id, position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*leadscout.Place
	for rows.Next() {
		var id, runID, record, scrapedAt string
		if err := rows.Scan(&id, &runID, &record, &scrapedAt); err != nil {
			return nil, err
		}

		var p leadscout.Place
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			return nil, fmt.Errorf("decode place %s: %w", id, err)
		}
		p.ID = id
		p.RunID = runID
		if p.ScrapedAt, err = parseTime(scrapedAt, "scraped_at"); err != nil {
			return nil, err
		}
		places = append(places, &p)
	}

	return places, rows.Err()
}

// DeletePlacesByRun removes all places for a run.
func (s *PlaceService) DeletePlacesByRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM places WHERE run_id = ?", runID)
	return err
}
