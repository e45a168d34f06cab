package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/crawl"
	"github.com/fwojciec/leadscout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeLinks(n int) []leadscout.Element {
	elems := make([]leadscout.Element, 0, n)
	for i := range n {
		elems = append(elems, &mock.Element{Attrs: map[string]string{
			"href": fmt.Sprintf("https://www.google.com/maps/place/Shop+%d/data=!1s0x%d", i, i),
		}})
	}
	return elems
}

// scrollingPage returns a results page whose QueryAll yields visible(check)
// links on the n-th call.
func scrollingPage(visible func(check int) int) (*mock.Page, *int, *int) {
	checks, scrolls := 0, 0
	page := &mock.Page{
		QueryAllFn: func(selector string) ([]leadscout.Element, error) {
			checks++
			return placeLinks(visible(checks)), nil
		},
		ScrollPanelFn: func(selector string) error {
			scrolls++
			return nil
		},
		CloseFn: func() error { return nil },
	}
	return page, &checks, &scrolls
}

func newTestDiscoverer(page leadscout.Page) *crawl.Discoverer {
	browser := &mock.Browser{
		NavigateFn: func(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error) {
			return page, nil
		},
	}
	d := crawl.NewDiscoverer(browser, nil)
	d.InitialSettle = 0
	d.ScrollSettle = 0
	d.RetryDelays = []time.Duration{0}
	return d
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("stops after three checks without new links", func(t *testing.T) {
		t.Parallel()

		page, checks, scrolls := scrollingPage(func(int) int { return 2 })
		d := newTestDiscoverer(page)

		var messages []string
		set, err := d.Discover(context.Background(), "plumbers", 20, func(msg string) {
			messages = append(messages, msg)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, 4, *checks)
		assert.Equal(t, 3, *scrolls)
		assert.Equal(t, []string{"No new results after 3 attempts, stopping at 2 places"}, messages)
	})

	t.Run("stops once the over-collection target is reached", func(t *testing.T) {
		t.Parallel()

		page, checks, _ := scrollingPage(func(check int) int { return check * 3 })
		d := newTestDiscoverer(page)

		var messages []string
		set, err := d.Discover(context.Background(), "plumbers", 4, func(msg string) {
			messages = append(messages, msg)
		})

		require.NoError(t, err)
		assert.Equal(t, 6, set.Len())
		assert.Equal(t, 2, *checks)
		assert.Equal(t, []string{"Collected 6 place URLs (target: 6)"}, messages)
	})

	t.Run("stops after max scroll attempts", func(t *testing.T) {
		t.Parallel()

		page, checks, _ := scrollingPage(func(check int) int { return check })
		d := newTestDiscoverer(page)
		d.MaxScrollAttempts = 5

		set, err := d.Discover(context.Background(), "plumbers", 100, nil)

		require.NoError(t, err)
		assert.Equal(t, 5, set.Len())
		assert.Equal(t, 5, *checks)
	})

	t.Run("keeps insertion order and ignores duplicates", func(t *testing.T) {
		t.Parallel()

		page, _, _ := scrollingPage(func(check int) int { return min(check, 3) })
		d := newTestDiscoverer(page)

		set, err := d.Discover(context.Background(), "plumbers", 100, nil)

		require.NoError(t, err)
		urls := set.URLs()
		require.Len(t, urls, 3)
		assert.Contains(t, urls[0], "Shop+0")
		assert.Contains(t, urls[2], "Shop+2")
		assert.True(t, set.Frozen())
	})

	t.Run("skips links outside the place path", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			QueryAllFn: func(selector string) ([]leadscout.Element, error) {
				return []leadscout.Element{
					&mock.Element{Attrs: map[string]string{"href": "https://www.google.com/maps/place/Acme"}},
					&mock.Element{Attrs: map[string]string{"href": "https://www.google.com/maps/search/other"}},
					&mock.Element{Attrs: map[string]string{}},
				}, nil
			},
			ScrollPanelFn: func(selector string) error { return nil },
			CloseFn:       func() error { return nil },
		}
		d := newTestDiscoverer(page)

		set, err := d.Discover(context.Background(), "plumbers", 10, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.google.com/maps/place/Acme"}, set.URLs())
	})

	t.Run("scroll failure ends the session with what was found", func(t *testing.T) {
		t.Parallel()

		page, checks, _ := scrollingPage(func(int) int { return 2 })
		page.ScrollPanelFn = func(selector string) error { return errors.New("target closed") }
		d := newTestDiscoverer(page)

		set, err := d.Discover(context.Background(), "plumbers", 10, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, 1, *checks)
	})

	t.Run("navigation failure is unavailable after retries", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		browser := &mock.Browser{
			NavigateFn: func(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error) {
				attempts++
				assert.Equal(t, "https://www.google.com/maps/search/plumbers+in+Austin", url)
				return nil, errors.New("net::ERR_NAME_NOT_RESOLVED")
			},
		}
		d := crawl.NewDiscoverer(browser, nil)
		d.RetryDelays = []time.Duration{0, 0}

		set, err := d.Discover(context.Background(), "plumbers in Austin", 10, nil)

		assert.Nil(t, set)
		assert.Equal(t, leadscout.EUNAVAILABLE, leadscout.ErrorCode(err))
		assert.Equal(t, 3, attempts)
	})

	t.Run("literal takes default tuning and zero settles do not pause", func(t *testing.T) {
		t.Parallel()

		page, checks, _ := scrollingPage(func(int) int { return 2 })
		d := &crawl.Discoverer{Browser: &mock.Browser{
			NavigateFn: func(ctx context.Context, url string, wait leadscout.WaitStrategy) (leadscout.Page, error) {
				assert.Equal(t, crawl.MapsSearchURL("plumbers"), url)
				return page, nil
			},
		}}

		start := time.Now()
		set, err := d.Discover(context.Background(), "plumbers", 20, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, crawl.DefaultStallLimit+1, *checks)
		assert.Less(t, time.Since(start), crawl.DefaultScrollSettle)
	})

	t.Run("nil browser is unavailable", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{}

		_, err := d.Discover(context.Background(), "plumbers", 10, nil)

		assert.Equal(t, leadscout.EUNAVAILABLE, leadscout.ErrorCode(err))
	})

	t.Run("closes the search page", func(t *testing.T) {
		t.Parallel()

		page, _, _ := scrollingPage(func(int) int { return 1 })
		closed := false
		page.CloseFn = func() error {
			closed = true
			return nil
		}
		d := newTestDiscoverer(page)

		_, err := d.Discover(context.Background(), "plumbers", 10, nil)

		require.NoError(t, err)
		assert.True(t, closed)
	})
}

func TestDiscoverer_Target(t *testing.T) {
	t.Parallel()

	d := crawl.NewDiscoverer(nil, nil)

	assert.Equal(t, 15, d.Target(10))
	assert.Equal(t, 2, d.Target(1))
	assert.Equal(t, 0, d.Target(0))
}

func TestDiscoverySet(t *testing.T) {
	t.Parallel()

	s := crawl.NewDiscoverySet()

	assert.True(t, s.Add("https://a.test"))
	assert.False(t, s.Add("https://a.test"))
	assert.True(t, s.Add("https://b.test"))

	s.Freeze()

	assert.False(t, s.Add("https://c.test"))
	assert.True(t, s.Contains("https://a.test"))
	assert.False(t, s.Contains("https://c.test"))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, s.URLs())
}

func TestMapsSearchURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.google.com/maps/search/plumbers+in+Austin%2C+TX", crawl.MapsSearchURL(" plumbers in Austin, TX "))
}
