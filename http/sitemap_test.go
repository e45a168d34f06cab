package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/leadscout"
	lshttp "github.com/fwojciec/leadscout/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlset = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">%s</urlset>`

func locURLs(paths ...string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("<url><loc>{{BASE}}" + p + "</loc></url>")
	}
	return strings.Replace(urlset, "%s", b.String(), 1)
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps declared in robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/robots.txt":  "User-agent: *\nDisallow: /private/\nsitemap: {{BASE}}/pages.xml\nSitemap: {{BASE}}/more.xml\n",
			"/pages.xml":   locURLs("/", "/services"),
			"/more.xml":    locURLs("/services", "/team"),
			"/sitemap.xml": locURLs("/never-read"),
		})
		defer srv.Close()

		urls, err := lshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL+"/some/page", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/", srv.URL + "/services", srv.URL + "/team"}, urls)
	})

	t.Run("falls back to sitemap.xml and resolves indexes", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-missing.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap.xml</loc></sitemap>
</sitemapindex>`,
			"/sitemap-pages.xml": locURLs("/about-us", "/contact"),
		})
		defer srv.Close()

		urls, err := lshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/about-us", srv.URL + "/contact"}, urls)
	})

	t.Run("applies contact page filter", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": locURLs("/blog/contact-lenses-guide/photo.jpg", "/products", "/company/contact-us/", "/about"),
		})
		defer srv.Close()

		urls, err := lshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, leadscout.ContactPageFilter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/company/contact-us/", srv.URL + "/about"}, urls)
	})

	t.Run("stops after the sitemap budget", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml": `<sitemapindex>
  <sitemap><loc>{{BASE}}/a.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/b.xml</loc></sitemap>
</sitemapindex>`,
			"/a.xml": locURLs("/a"),
			"/b.xml": locURLs("/b"),
		})
		defer srv.Close()

		svc := lshttp.NewSitemapService(srv.Client())
		svc.MaxSitemaps = 2

		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/a"}, urls)
	})

	t.Run("returns empty slice when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{})
		defer srv.Close()

		urls, err := lshttp.NewSitemapService(srv.Client()).DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := lshttp.NewSitemapService(nil).DiscoverURLs(context.Background(), "not a url", nil)

		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{"/sitemap.xml": locURLs("/page1")})
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := lshttp.NewSitemapService(srv.Client()).DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}

// newTestServer serves path->content pairs, replacing {{BASE}} with the
// server URL. Unknown paths return 404.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))

	return srv
}
