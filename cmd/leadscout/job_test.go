package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/leadscout"
	main "github.com/fwojciec/leadscout/cmd/leadscout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dentistJob = `
search_terms:
  - dentist
  - orthodontist
location: Austin, TX
max_results: 40
batch_size: 4
enrich_contacts: true
verify_mx: true
output: leads.csv
`

func TestParseJob(t *testing.T) {
	t.Parallel()

	t.Run("decodes every field", func(t *testing.T) {
		t.Parallel()

		job, err := main.ParseJob([]byte(dentistJob))

		require.NoError(t, err)
		assert.Equal(t, []string{"dentist", "orthodontist"}, job.SearchTerms)
		assert.Equal(t, "Austin, TX", job.Location)
		assert.Equal(t, 40, job.MaxResults)
		assert.Equal(t, 4, job.BatchSize)
		assert.True(t, job.EnrichContacts)
		assert.True(t, job.VerifyMX)
		assert.False(t, job.ExtractReviews)
		assert.Equal(t, "leads.csv", job.Output)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := main.ParseJob([]byte("search_terms: [dentist]\nmax_result: 10\n"))

		require.Error(t, err)
		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})

	t.Run("requires search terms", func(t *testing.T) {
		t.Parallel()

		_, err := main.ParseJob([]byte("location: Austin, TX\n"))

		require.Error(t, err)
		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})

	t.Run("rejects empty file", func(t *testing.T) {
		t.Parallel()

		_, err := main.ParseJob(nil)

		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})
}

func TestJob_Input(t *testing.T) {
	t.Parallel()

	job, err := main.ParseJob([]byte(dentistJob))
	require.NoError(t, err)

	in := job.Input()

	assert.Equal(t, []string{"dentist", "orthodontist"}, in.Strings("search_terms"))
	assert.Equal(t, "Austin, TX", in.String("location", ""))
	assert.Equal(t, 40, in.Int("max_results", 0))
	assert.Equal(t, 4, in.Int("batch_size", 0))
	assert.True(t, in.Bool("enrich_contacts", false))
}

func TestLoadJob(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte(dentistJob), 0644))

		job, err := main.LoadJob(path)

		require.NoError(t, err)
		assert.Len(t, job.SearchTerms, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadJob(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}
