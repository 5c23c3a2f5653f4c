package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// VideoStatus performs one tracker poll step for a video unit and returns
// the canonical status. Completed units short-circuit without touching the
// render provider, so clients may poll this freely.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentOwnerID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}
	id := chi.URLParam(r, "id")
	unit, err := a.Units.GetByID(r.Context(), id)
	if err != nil || unit.OwnerID != ownerID {
		a.error(w, http.StatusNotFound, "not_found", "video not found")
		return
	}
	update, err := a.Tracker.Check(r.Context(), id)
	if err != nil {
		a.Logger.Warn().Err(err).Str("unit_id", id).Msg("handlers: video status poll failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "status check failed, retry shortly")
		return
	}
	a.json(w, http.StatusOK, update)
}
