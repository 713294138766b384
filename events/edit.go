package events

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/testgcahm/gis/eventstore"
	"github.com/testgcahm/gis/middleware"
	"github.com/testgcahm/gis/models"
	"github.com/testgcahm/gis/utils"

	"github.com/julienschmidt/httprouter"
)

// UpdateEvent handles PUT on the collection. A body carrying an order array
// is a batched reorder: every {id, order} pair is written in one bulk
// operation, one success or failure for the whole batch. Any other body is a
// single update of the supplied fields on one event.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var batch struct {
		Order []models.OrderPair `json:"order"`
	}
	if err := json.Unmarshal(body, &batch); err == nil && batch.Order != nil {
		if err := h.store.UpdateOrder(r.Context(), batch.Order); err != nil {
			h.logger.Error("reorder failed", "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save order")
			return
		}
		h.logger.Info("order saved", "count", len(batch.Order),
			"by", middleware.EmailFromContext(r.Context()))
		h.invalidate(r.Context())
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
		return
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	id, _ := fields["id"].(string)
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing event id")
		return
	}
	delete(fields, "id")

	if err := h.store.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.logger.Error("update event failed", "id", id, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	h.logger.Info("event updated", "id", id, "by", middleware.EmailFromContext(r.Context()))
	h.invalidate(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteEvent removes one event by id. No soft delete.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing event id")
		return
	}

	if err := h.store.Delete(r.Context(), req.ID); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.logger.Error("delete event failed", "id", req.ID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	h.logger.Info("event deleted", "id", req.ID, "by", middleware.EmailFromContext(r.Context()))
	h.invalidate(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
