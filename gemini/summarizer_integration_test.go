//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/leadscout/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSummarizer_Integration(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	s := gemini.NewSummarizer(client)
	tokens, err := gemini.NewLocalTokens("gemini-2.0-flash")
	require.NoError(t, err)
	s.Tokens = tokens

	summary, err := s.Summarize(ctx, "# About Acme Plumbing\n\nFamily-owned since 1982, Acme Plumbing repairs leaks, "+
		"installs water heaters and clears drains for homes across Austin, Texas. Call (512) 555-0100.")

	require.NoError(t, err)
	assert.NotEmpty(t, summary)
}

func TestLocalTokens_Integration(t *testing.T) {
	t.Parallel()

	tokens, err := gemini.NewLocalTokens("gemini-2.0-flash")
	require.NoError(t, err)

	short, err := tokens.CountTokens(context.Background(), "Acme")
	require.NoError(t, err)
	long, err := tokens.CountTokens(context.Background(), "Acme Plumbing repairs leaks and installs water heaters across Austin.")
	require.NoError(t, err)
	empty, err := tokens.CountTokens(context.Background(), " ")
	require.NoError(t, err)

	assert.Positive(t, short)
	assert.Greater(t, long, short)
	assert.Zero(t, empty)
}
