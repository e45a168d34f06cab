package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/leadscout/cmd/leadscout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

// runMain runs the CLI once against the database at dbPath.
func runMain(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(testContext(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without command", func(t *testing.T) {
		t.Parallel()

		_, _, err := runMain(t, filepath.Join(t.TempDir(), "test.db"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("reports empty run list", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "runs")

		require.NoError(t, err)
		assert.Contains(t, stdout, "No runs found")
	})

	t.Run("lists every scraper without starting a browser", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "scrapers")

		require.NoError(t, err)
		for _, id := range []string{"amazon", "facebook", "instagram", "linkedin", "maps", "tiktok", "twitter", "website"} {
			assert.Contains(t, stdout, id)
		}
	})

	t.Run("shows scraper input fields", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "scrapers", "--schema")

		require.NoError(t, err)
		assert.Contains(t, stdout, "search_terms")
		assert.Contains(t, stdout, "required")
	})

	t.Run("scrape records a run that can be listed and deleted", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")

		stdout, _, err := runMain(t, dbPath, "scrape", "facebook", "--set", "pageUrl=https://facebook.com/rossibakery")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"pageUrl": "https://facebook.com/rossibakery"`)
		assert.Contains(t, stdout, "Graph API")

		stdout, _, err = runMain(t, dbPath, "runs")
		require.NoError(t, err)
		assert.Contains(t, stdout, "facebook")
		assert.Contains(t, stdout, "completed")
		assert.Contains(t, stdout, "https://facebook.com/rossibakery")
		runID := strings.Fields(stdout)[0]

		stdout, _, err = runMain(t, dbPath, "places", runID)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No places found")

		stdout, _, err = runMain(t, dbPath, "delete", runID, "--force")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Deleted run "+runID)

		stdout, _, err = runMain(t, dbPath, "runs")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No runs found")
	})

	t.Run("failed scrape is recorded as failed", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, stderr, err := runMain(t, dbPath, "scrape", "twitter")
		require.Error(t, err)
		assert.Contains(t, stderr, "query is required")

		stdout, _, err := runMain(t, dbPath, "runs")
		require.NoError(t, err)
		assert.Contains(t, stdout, "failed")
	})

	t.Run("unknown scraper is not found", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "scrape", "myspace")

		require.Error(t, err)
		assert.Contains(t, stderr, `scraper "myspace" not found`)
	})

	t.Run("places of unknown run is not found", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "places", "missing-run")

		require.Error(t, err)
		assert.Contains(t, stderr, `run "missing-run" not found`)
	})

	t.Run("lists proxies given as flag", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, filepath.Join(t.TempDir(), "test.db"),
			"--proxies", "http://10.0.0.1:8080,socks5://10.0.0.2:1080", "proxies")

		require.NoError(t, err)
		assert.Contains(t, stdout, "http://10.0.0.1:8080")
		assert.Contains(t, stdout, "socks5://10.0.0.2:1080")
		assert.Contains(t, stdout, "active")
	})

	t.Run("rejects malformed proxy", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), "--proxies", "ftp://10.0.0.1:21", "proxies")

		require.Error(t, err)
		assert.Contains(t, stderr, "Hint:")
	})
}
