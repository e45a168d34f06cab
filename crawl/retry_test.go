package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/leadscout/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0, 0}

	t.Run("returns first success without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "<html>ok</html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://acme.test", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<html>ok</html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://acme.test", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://acme.test", fetch, nil, []time.Duration{0, 0})

		require.EqualError(t, err, "timeout")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			cancel()
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://acme.test", fetch, nil, noDelays)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("formats message", func(t *testing.T) {
		t.Parallel()

		var got string
		crawl.Report(func(msg string) { got = msg }, nil, "Found %d places", 12)

		assert.Equal(t, "Found 12 places", got)
	})

	t.Run("nil sink is ignored", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() { crawl.Report(nil, nil, "hello") })
	})

	t.Run("panicking sink is recovered", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			crawl.Report(func(string) { panic("broken pipe") }, nil, "hello")
		})
	})
}
