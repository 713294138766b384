// Package sitemap generates the XML sitemap: the static marketing routes
// plus one entry per event slug.
package sitemap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/testgcahm/gis/rdx"

	"github.com/julienschmidt/httprouter"
)

// staticPaths are the fixed public routes, in emitted order. The empty path
// is the home page.
var staticPaths = []string{"", "about", "contact", "register", "events", "admin"}

// SlugLister provides the event slugs to enumerate.
type SlugLister interface {
	Slugs(ctx context.Context) ([]string, error)
}

// Cache caches the rendered sitemap; may be nil.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

type Handler struct {
	store   SlugLister
	cache   Cache
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

func New(store SlugLister, cache Cache, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{store: store, cache: cache, baseURL: baseURL, logger: logger, now: time.Now}
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

// Build renders the sitemap XML for the given slugs. The home page gets
// priority 1.00, static pages 0.80, event pages 0.74.
func Build(baseURL string, slugs []string, now time.Time) []byte {
	lastmod := now.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	writeURL := func(loc, priority string) {
		fmt.Fprintf(&b, "<url><loc>%s</loc><lastmod>%s</lastmod><priority>%s</priority></url>",
			escapeXML(loc), lastmod, priority)
	}

	for _, path := range staticPaths {
		priority := "0.80"
		if path == "" {
			priority = "1.00"
		}
		writeURL(baseURL+path, priority)
	}
	for _, slug := range slugs {
		writeURL(baseURL+"events/"+slug, "0.74")
	}

	b.WriteString("\n</urlset>")
	return []byte(b.String())
}

// Serve answers GET /sitemap.xml and GET /api/sitemap.xml.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	if h.cache != nil {
		if body, ok := h.cache.Get(ctx, rdx.SitemapPageKey); ok {
			w.Header().Set("Content-Type", "application/xml")
			w.Write(body)
			return
		}
	}

	slugs, err := h.store.Slugs(ctx)
	if err != nil {
		// Static routes only; event pages drop out until the store recovers.
		h.logger.Warn("slug listing failed, emitting static-only sitemap", "err", err)
		slugs = nil
	}

	body := Build(h.baseURL, slugs, h.now())
	if h.cache != nil && err == nil {
		h.cache.Set(ctx, rdx.SitemapPageKey, body)
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(body)
}
