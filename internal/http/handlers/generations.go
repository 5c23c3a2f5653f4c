package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/pipeline"
)

type generateRequest struct {
	Input          string `json:"input"`
	Clarifications struct {
		ContentGoal     string `json:"content_goal"`
		PrimaryPlatform string `json:"primary_platform"`
	} `json:"clarifications"`
	ContentType    string `json:"content_type"`
	MediaType      string `json:"media_type"`
	AspectRatio    string `json:"aspect_ratio"`
	AssetContext   string `json:"asset_context"`
	HistorySummary string `json:"history_summary"`
}

type unitResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	MediaType          string `json:"media_type"`
	StoragePath        string `json:"storage_path,omitempty"`
	ErrorMessage       string `json:"error_message,omitempty"`
	BatchID            string `json:"batch_id,omitempty"`
	CarouselSlideIndex int    `json:"carousel_slide_index"`
	CarouselSlideTotal int    `json:"carousel_slide_total"`
}

// Generate runs the full pipeline for one request. The response is 202
// because video units may still be rendering when the plan is returned.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentOwnerID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "input is required")
		return
	}

	res, err := a.Pipeline.Generate(r.Context(), pipeline.Request{
		OwnerID:  ownerID,
		RawInput: req.Input,
		Clarifications: domain.IntentHints{
			ContentGoal:     req.Clarifications.ContentGoal,
			PrimaryPlatform: req.Clarifications.PrimaryPlatform,
		},
		ContentType:    req.ContentType,
		MediaType:      domain.MediaType(req.MediaType),
		AspectRatio:    req.AspectRatio,
		AssetContext:   req.AssetContext,
		HistorySummary: req.HistorySummary,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamAuth) {
			a.error(w, http.StatusBadGateway, "upstream_auth", "generation provider rejected our credentials")
			return
		}
		if errors.Is(err, domain.ErrProviderFailure) {
			a.error(w, http.StatusBadGateway, "provider_failure", "generation provider is unavailable")
			return
		}
		a.Logger.Error().Err(err).Str("owner_id", ownerID).Msg("handlers: generation failed")
		a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		return
	}
	a.json(w, http.StatusAccepted, res)
}

// GetGeneration returns one generation unit's current state.
func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentOwnerID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}
	unit, err := a.Units.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil || unit.OwnerID != ownerID {
		a.error(w, http.StatusNotFound, "not_found", "generation not found")
		return
	}
	a.json(w, http.StatusOK, toUnitResponse(unit))
}

// GetBatch returns every unit of a carousel batch in slide order.
func (a *App) GetBatch(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentOwnerID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}
	units, err := a.Units.ListByBatch(r.Context(), chi.URLParam(r, "batch_id"))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list batch")
		return
	}
	items := make([]unitResponse, 0, len(units))
	for i := range units {
		if units[i].OwnerID != ownerID {
			continue
		}
		items = append(items, toUnitResponse(&units[i]))
	}
	if len(items) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "batch not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"units": items})
}

// GetPlan returns a persisted content plan with its repair and gate record.
func (a *App) GetPlan(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentOwnerID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
		return
	}
	record, err := a.Plans.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil || record.OwnerID != ownerID {
		a.error(w, http.StatusNotFound, "not_found", "plan not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":          record.ID,
		"plan":        json.RawMessage(record.PlanJSON),
		"repair_log":  record.RepairLog,
		"gate_passed": record.GatePassed,
		"gate_notes":  record.GateNotes,
	})
}

func toUnitResponse(u *domain.GenerationUnit) unitResponse {
	return unitResponse{
		ID:                 u.ID,
		Status:             string(u.Status),
		MediaType:          string(u.MediaType),
		StoragePath:        u.StoragePath,
		ErrorMessage:       u.ErrorMessage,
		BatchID:            u.BatchID,
		CarouselSlideIndex: u.CarouselSlideIndex,
		CarouselSlideTotal: u.CarouselSlideTotal,
	}
}
