package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.PlaceParser  = (*PlaceParser)(nil)
	_ leadscout.PlaceService = (*PlaceService)(nil)
	_ leadscout.RunService   = (*RunService)(nil)
)

// PlaceParser is a mock implementation of leadscout.PlaceParser.
type PlaceParser struct {
	ParsePlaceFn   func(html string, pageURL string) (*leadscout.Place, error)
	ParseImagesFn  func(html string) []string
	ParseReviewsFn func(html string) []leadscout.Review
}

func (p *PlaceParser) ParsePlace(html string, pageURL string) (*leadscout.Place, error) {
	return p.ParsePlaceFn(html, pageURL)
}

func (p *PlaceParser) ParseImages(html string) []string {
	return p.ParseImagesFn(html)
}

func (p *PlaceParser) ParseReviews(html string) []leadscout.Review {
	return p.ParseReviewsFn(html)
}

// PlaceService is a mock implementation of leadscout.PlaceService.
type PlaceService struct {
	CreatePlacesFn      func(ctx context.Context, places []*leadscout.Place) (int, error)
	FindPlacesFn        func(ctx context.Context, filter leadscout.PlaceFilter) ([]*leadscout.Place, error)
	DeletePlacesByRunFn func(ctx context.Context, runID string) error
}

func (s *PlaceService) CreatePlaces(ctx context.Context, places []*leadscout.Place) (int, error) {
	return s.CreatePlacesFn(ctx, places)
}

func (s *PlaceService) FindPlaces(ctx context.Context, filter leadscout.PlaceFilter) ([]*leadscout.Place, error) {
	return s.FindPlacesFn(ctx, filter)
}

func (s *PlaceService) DeletePlacesByRun(ctx context.Context, runID string) error {
	return s.DeletePlacesByRunFn(ctx, runID)
}

// RunService is a mock implementation of leadscout.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *leadscout.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*leadscout.Run, error)
	FindRunsFn    func(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error)
	FinishRunFn   func(ctx context.Context, id string, upd leadscout.RunUpdate) (*leadscout.Run, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *leadscout.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*leadscout.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd leadscout.RunUpdate) (*leadscout.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
