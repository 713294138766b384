// Package publish revalidates the public pages after admin edits: it drops
// the cached responses and pings the external deploy hook.
package publish

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/testgcahm/gis/rdx"
	"github.com/testgcahm/gis/utils"

	"github.com/julienschmidt/httprouter"
)

// Cache is the page cache to invalidate; may be nil.
type Cache interface {
	Del(ctx context.Context, keys ...string)
}

type Handler struct {
	cache       Cache
	hookURL     string
	environment string
	logger      *slog.Logger
	httpClient  *http.Client
}

func New(cache Cache, hookURL, environment string, logger *slog.Logger) *Handler {
	return &Handler{
		cache:       cache,
		hookURL:     hookURL,
		environment: environment,
		logger:      logger,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Publish drops the cached events and sitemap pages and fires the deploy
// hook. The hook ping is fire-and-forget: a rebuild that never starts is an
// operational problem, not a request failure.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.cache != nil {
		h.cache.Del(r.Context(), rdx.EventsPageKey, rdx.SitemapPageKey)
	}

	go h.triggerDeployHook()

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Publish successful, wait for 2 minutes before seeing changes",
	})
}

func (h *Handler) triggerDeployHook() {
	if h.hookURL == "" || h.environment == "development" {
		return
	}
	resp, err := h.httpClient.Post(h.hookURL, "application/json", nil)
	if err != nil {
		h.logger.Warn("deploy hook ping failed", "err", err)
		return
	}
	resp.Body.Close()
	h.logger.Info("deploy hook triggered", "status", resp.StatusCode)
}
