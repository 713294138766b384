package sitemap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSlugs struct {
	slugs []string
	err   error
}

func (f *fakeSlugs) Slugs(ctx context.Context) ([]string, error) {
	return f.slugs, f.err
}

func TestBuildContainsStaticAndEventRoutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	xml := string(Build("https://society.example.org/", []string{"iftar-night", "eid-prayer"}, now))

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	assert.Contains(t, xml, "<loc>https://society.example.org/</loc>")
	for _, path := range []string{"about", "contact", "register", "events", "admin"} {
		assert.Contains(t, xml, "<loc>https://society.example.org/"+path+"</loc>")
	}
	assert.Contains(t, xml, "<loc>https://society.example.org/events/iftar-night</loc>")
	assert.Contains(t, xml, "<loc>https://society.example.org/events/eid-prayer</loc>")

	assert.Contains(t, xml, "<lastmod>2025-06-01T12:00:00Z</lastmod>")
	assert.Contains(t, xml, "<priority>1.00</priority>")
	assert.Contains(t, xml, "<priority>0.80</priority>")
	assert.Contains(t, xml, "<priority>0.74</priority>")
}

func TestBuildEscapesXML(t *testing.T) {
	xml := string(Build("https://society.example.org/", []string{"q&a-night"}, time.Now()))
	assert.Contains(t, xml, "events/q&amp;a-night")
	assert.NotContains(t, xml, "q&a-night</loc>")
}

func TestServe(t *testing.T) {
	h := New(&fakeSlugs{slugs: []string{"iftar-night"}}, nil, "https://society.example.org/", testLogger)

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "events/iftar-night")
}

// A failing store still yields the static routes rather than a 500.
func TestServeStoreFailureFallsBackToStaticOnly(t *testing.T) {
	h := New(&fakeSlugs{err: errors.New("down")}, nil, "https://society.example.org/", testLogger)

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://society.example.org/about</loc>")
	assert.NotContains(t, rec.Body.String(), "events/iftar-night")
}
