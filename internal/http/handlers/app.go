package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/domain"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/mediajob"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/pipeline"
)

// App bundles the dependencies shared by every handler.
type App struct {
	Pipeline *pipeline.Service
	Tracker  *mediajob.Tracker
	Units    domain.UnitRepository
	Plans    domain.PlanRepository
	Logger   infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// currentOwnerID resolves the requesting owner. Authentication lives at the
// gateway; this service trusts the forwarded identity header.
func (a *App) currentOwnerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Owner-ID"))
}
