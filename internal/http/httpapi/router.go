package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/DARE369/Social-Media-Agent-sub000/internal/http/handlers"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/infra"
	"github.com/DARE369/Social-Media-Agent-sub000/internal/middleware"
)

// NewRouter wires the public generation API.
func NewRouter(app *handlers.App, logger infra.Logger, rateLimitPerMin int, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(allowedOrigins),
	)
	if rateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(rateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/generations", func(r chi.Router) {
		r.Post("/", app.Generate)
		r.Get("/{id}", app.GetGeneration)
		r.Get("/batch/{batch_id}", app.GetBatch)
	})
	r.Get("/v1/plans/{id}", app.GetPlan)
	r.Get("/v1/videos/{id}/status", app.VideoStatus)

	return r
}
