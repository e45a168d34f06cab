package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/leadscout"
	main "github.com/fwojciec/leadscout/cmd/leadscout"
	"github.com/fwojciec/leadscout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints enrichment", func(t *testing.T) {
		t.Parallel()

		var gotOpts leadscout.EnrichOptions
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Enricher: &mock.SiteEnricher{
				EnrichFn: func(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment {
					gotOpts = opts
					e := leadscout.NewEnrichment()
					e.Emails = []string{"info@rossibakery.com"}
					e.SocialMedia[leadscout.PlatformInstagram] = "https://instagram.com/rossibakery"
					e.ContactPageURL = "https://rossibakery.com/contact"
					return e
				},
			},
		}

		err := (&main.SiteCmd{URL: "https://rossibakery.com", Timeout: 5 * time.Second}).Run(deps)

		require.NoError(t, err)
		assert.True(t, gotOpts.CheckContactPage)
		assert.Equal(t, 5*time.Second, gotOpts.Timeout)
		assert.Contains(t, stdout.String(), `"info@rossibakery.com"`)
		assert.Contains(t, stdout.String(), `"instagram": "https://instagram.com/rossibakery"`)
		assert.Contains(t, stdout.String(), `"contactPageUrl": "https://rossibakery.com/contact"`)
	})

	t.Run("home page only", func(t *testing.T) {
		t.Parallel()

		var gotOpts leadscout.EnrichOptions
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Enricher: &mock.SiteEnricher{
				EnrichFn: func(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment {
					gotOpts = opts
					return leadscout.NewEnrichment()
				},
			},
		}

		err := (&main.SiteCmd{URL: "https://rossibakery.com", NoContactPage: true}).Run(deps)

		require.NoError(t, err)
		assert.False(t, gotOpts.CheckContactPage)
		assert.Contains(t, stderr.String(), "No contact details found")
	})

	t.Run("canceled context is an error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(testContext())
		cancel()
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Enricher: &mock.SiteEnricher{
				EnrichFn: func(ctx context.Context, websiteURL string, opts leadscout.EnrichOptions) *leadscout.Enrichment {
					return leadscout.NewEnrichment()
				},
			},
		}

		err := (&main.SiteCmd{URL: "https://rossibakery.com"}).Run(deps)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
