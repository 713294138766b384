// Package events implements the public events listing and the admin
// mutation API: create, update, delete, and batched reordering.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/testgcahm/gis/eventstore"
	"github.com/testgcahm/gis/models"
	"github.com/testgcahm/gis/ordering"
	"github.com/testgcahm/gis/rdx"
	"github.com/testgcahm/gis/utils"

	"github.com/julienschmidt/httprouter"
)

// Store is the event record store the handlers delegate to.
type Store interface {
	ListAll(ctx context.Context) ([]models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	UpdateOrder(ctx context.Context, pairs []models.OrderPair) error
	Delete(ctx context.Context, id string) error
}

// Cache caches rendered public responses. May be nil (cache disabled).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Del(ctx context.Context, keys ...string)
}

// Notifier is told after every committed mutation so connected admin panels
// can refetch. May be nil.
type Notifier interface {
	EventsChanged()
}

type Handler struct {
	store   Store
	cache   Cache
	live    Notifier
	baseURL string
	logger  *slog.Logger
}

func New(store Store, cache Cache, live Notifier, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{store: store, cache: cache, live: live, baseURL: baseURL, logger: logger}
}

// GetEvents serves the full listing, sorted by order ascending with ties
// broken by id. Public, no auth; served from the page cache when warm.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	if h.cache != nil {
		if body, ok := h.cache.Get(ctx, rdx.EventsPageKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	eventsArray, err := h.store.ListAll(ctx)
	if err != nil {
		h.logger.Error("list events failed", "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	if eventsArray == nil {
		eventsArray = []models.Event{}
	}
	ordering.SortEvents(eventsArray)
	for i := range eventsArray {
		ordering.SortSubevents(eventsArray[i].Subevents)
	}

	body, err := json.Marshal(utils.M{"eventsArray": eventsArray})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to encode events")
		return
	}
	if h.cache != nil {
		h.cache.Set(ctx, rdx.EventsPageKey, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// GetEventBySlug serves one event for the public detail page.
func (h *Handler) GetEventBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, ok := h.fetchEvent(w, r, ps.ByName("slug"))
	if !ok {
		return
	}
	ordering.SortSubevents(event.Subevents)
	utils.RespondWithJSON(w, http.StatusOK, event)
}

// fetchEvent loads one event by slug and writes the error response itself
// when the lookup fails.
func (h *Handler) fetchEvent(w http.ResponseWriter, r *http.Request, slug string) (*models.Event, bool) {
	event, err := h.store.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		} else {
			h.logger.Error("get event failed", "slug", slug, "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load event")
		}
		return nil, false
	}
	return event, true
}

// invalidate drops cached public pages and pings connected admin panels.
// Called after every committed mutation.
func (h *Handler) invalidate(ctx context.Context) {
	if h.cache != nil {
		h.cache.Del(ctx, rdx.EventsPageKey, rdx.SitemapPageKey)
	}
	if h.live != nil {
		h.live.EventsChanged()
	}
}
