package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/leadscout"
	main "github.com/fwojciec/leadscout/cmd/leadscout"
	"github.com/fwojciec/leadscout/fs"
	"github.com/fwojciec/leadscout/mock"
	"github.com/fwojciec/leadscout/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placesFunc adapts a function to main.PlaceScraper.
type placesFunc func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error)

func (f placesFunc) Places(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
	return f(ctx, opts, progress)
}

// recordingRuns is a RunService that assigns run-1 and keeps the last update.
func recordingRuns(created **leadscout.Run, finished *leadscout.RunUpdate) *mock.RunService {
	return &mock.RunService{
		CreateRunFn: func(ctx context.Context, run *leadscout.Run) error {
			run.ID = "run-1"
			*created = run
			return nil
		},
		FinishRunFn: func(ctx context.Context, id string, upd leadscout.RunUpdate) (*leadscout.Run, error) {
			*finished = upd
			return &leadscout.Run{ID: id, Status: upd.Status}, nil
		},
	}
}

func twoDentists() []*leadscout.Place {
	rating := 4.8
	return []*leadscout.Place{
		{URL: "https://www.google.com/maps/place/Bright+Smiles", Title: "Bright Smiles Dental", Rating: &rating, Email: "hello@brightsmiles.com"},
		{URL: "https://www.google.com/maps/place/Lakeside+Ortho", Title: "Lakeside Orthodontics"},
	}
}

func TestMapsCmd(t *testing.T) {
	t.Parallel()

	t.Run("saves places and completes run", func(t *testing.T) {
		t.Parallel()

		var created *leadscout.Run
		var finished leadscout.RunUpdate
		var saved []*leadscout.Place
		var gotOpts scraper.MapsOptions

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   recordingRuns(&created, &finished),
			Places: &mock.PlaceService{
				CreatePlacesFn: func(ctx context.Context, places []*leadscout.Place) (int, error) {
					saved = places
					return len(places), nil
				},
			},
			Maps: placesFunc(func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
				gotOpts = opts
				progress("Searching: dentist in Austin, TX")
				return twoDentists(), nil
			}),
		}

		cmd := &main.MapsCmd{Term: []string{"dentist"}, Location: "Austin, TX", MaxResults: 20}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"dentist"}, gotOpts.SearchTerms)
		assert.Equal(t, 20, gotOpts.MaxResults)
		assert.Equal(t, "Austin, TX", gotOpts.Location)
		require.NotNil(t, created)
		assert.Equal(t, "maps", created.Scraper)
		assert.Equal(t, "dentist in Austin, TX", created.Query)
		require.Len(t, saved, 2)
		for _, p := range saved {
			assert.Equal(t, "run-1", p.RunID)
		}
		assert.Equal(t, leadscout.RunCompleted, finished.Status)
		assert.Equal(t, 2, finished.ResultCount)
		assert.Contains(t, stdout.String(), "  Searching: dentist in Austin, TX")
		assert.Contains(t, stdout.String(), "Saved 2 places (run run-1)")
		assert.Empty(t, stderr.String())
	})

	t.Run("saves partial results and fails run on error", func(t *testing.T) {
		t.Parallel()

		var created *leadscout.Run
		var finished leadscout.RunUpdate
		saveCalled := false

		ctx, cancel := context.WithCancel(testContext())
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs:   recordingRuns(&created, &finished),
			Places: &mock.PlaceService{
				CreatePlacesFn: func(ctx context.Context, places []*leadscout.Place) (int, error) {
					saveCalled = true
					require.NoError(t, ctx.Err())
					return len(places), nil
				},
			},
			Maps: placesFunc(func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
				cancel()
				return twoDentists()[:1], context.Canceled
			}),
		}

		err := (&main.MapsCmd{Term: []string{"dentist"}}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.True(t, saveCalled)
		assert.Equal(t, leadscout.RunFailed, finished.Status)
		assert.Equal(t, 1, finished.ResultCount)
		assert.Contains(t, finished.Error, "canceled")
	})

	t.Run("requires search terms", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		err := (&main.MapsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
		assert.Contains(t, stderr.String(), "search_terms required")
	})

	t.Run("flags override job file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		jobPath := filepath.Join(dir, "job.yaml")
		require.NoError(t, os.WriteFile(jobPath, []byte(dentistJob), 0644))

		var created *leadscout.Run
		var finished leadscout.RunUpdate
		var gotOpts scraper.MapsOptions
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Runs:   recordingRuns(&created, &finished),
			Places: &mock.PlaceService{},
			Maps: placesFunc(func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
				gotOpts = opts
				return nil, nil
			}),
		}

		cmd := &main.MapsCmd{Job: jobPath, MaxResults: 5, ExtractReviews: true, Output: filepath.Join(dir, "out.json")}
		deps.Exporter = fs.NewExporter()
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"dentist", "orthodontist"}, gotOpts.SearchTerms)
		assert.Equal(t, "Austin, TX", gotOpts.Location)
		assert.Equal(t, 5, gotOpts.MaxResults)
		assert.Equal(t, 4, gotOpts.BatchSize)
		assert.True(t, gotOpts.EnrichContacts)
		assert.True(t, gotOpts.ExtractReviews)
		assert.FileExists(t, filepath.Join(dir, "out.json"))
		assert.NoFileExists(t, filepath.Join(dir, "leads.csv"))
	})

	t.Run("exports places", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "leads.jsonl")
		var created *leadscout.Run
		var finished leadscout.RunUpdate
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Runs:     recordingRuns(&created, &finished),
			Exporter: fs.NewExporter(),
			Places: &mock.PlaceService{
				CreatePlacesFn: func(ctx context.Context, places []*leadscout.Place) (int, error) {
					return len(places), nil
				},
			},
			Maps: placesFunc(func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
				return twoDentists(), nil
			}),
		}

		err := (&main.MapsCmd{Term: []string{"dentist"}, Output: out}).Run(deps)

		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
		assert.Contains(t, string(data), `"email":"hello@brightsmiles.com"`)
		assert.Contains(t, stdout.String(), "Exported 2 records")
	})

	t.Run("rejects unknown export format", func(t *testing.T) {
		t.Parallel()

		var created *leadscout.Run
		var finished leadscout.RunUpdate
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      testContext(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Runs:     recordingRuns(&created, &finished),
			Exporter: fs.NewExporter(),
			Places: &mock.PlaceService{
				CreatePlacesFn: func(ctx context.Context, places []*leadscout.Place) (int, error) {
					return len(places), nil
				},
			},
			Maps: placesFunc(func(ctx context.Context, opts scraper.MapsOptions, progress leadscout.ProgressSink) ([]*leadscout.Place, error) {
				return twoDentists(), nil
			}),
		}

		err := (&main.MapsCmd{Term: []string{"dentist"}, Output: filepath.Join(t.TempDir(), "x.out"), Format: "xml"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})
}
