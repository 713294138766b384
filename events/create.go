package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/testgcahm/gis/eventstore"
	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/models"
	"github.com/testgcahm/gis/ordering"
	"github.com/testgcahm/gis/utils"

	"github.com/julienschmidt/httprouter"
)

// requiredFields are the non-empty string fields a create must carry.
var requiredFields = []string{"title", "date", "time", "venue", "activities", "audience", "description", "image"}

func validateCreate(event *models.Event) error {
	values := map[string]string{
		"title":       event.Title,
		"date":        event.Date,
		"time":        event.Time,
		"venue":       event.Venue,
		"activities":  event.Activities,
		"audience":    event.Audience,
		"description": event.Description,
		"image":       event.Image,
	}
	for _, field := range requiredFields {
		if values[field] == "" {
			return fmt.Errorf("missing required field: %s", field)
		}
	}
	return nil
}

// CreateEvent persists a new event at display position 0; every existing
// event shifts down by one so the newest surfaces first. The slug is derived
// from the title when the client supplies none.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := validateCreate(&event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if event.Slug == "" {
		event.Slug = utils.Slugify(event.Title)
	}

	// Normalize segment positions to a clean 0..n-1 run.
	ordering.SortSubevents(event.Subevents)
	ordering.RenumberSubevents(event.Subevents)

	id, err := h.store.Create(r.Context(), &event)
	if err != nil {
		if errors.Is(err, eventstore.ErrDuplicateSlug) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create event failed", "slug", event.Slug, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save event")
		return
	}

	h.logger.Info("event created", "id", id, "slug", event.Slug,
		"by", middleware.EmailFromContext(r.Context()))
	h.invalidate(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "id": id})
}
