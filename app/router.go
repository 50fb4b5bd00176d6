package app

import (
	"net/http"

	adminhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/infrastructure/handlers"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the HTTP handler: every module under /api, plus /health and,
// when enabled, /metrics.
func (app *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httpx.CorrelationMiddleware)
	r.Use(adminhandlers.CORSMiddleware(app.Config.HTTP.AllowedOrigins))

	r.Get("/health", app.handleHealth)
	if app.metricsHandler != nil {
		r.Handle("/metrics", app.metricsHandler.Handler())
	}

	m := app.Modules
	requireAdmin := m.Admin.Router.RequireAdmin
	r.Route("/api", func(r chi.Router) {
		m.Admin.Router.Mount(r)
		m.Player.Router.Mount(r, requireAdmin)
		m.Ledger.Router.Mount(r, requireAdmin)
		m.Settlement.Router.Mount(r, requireAdmin)
		m.Session.Router.Mount(r, requireAdmin)
	})
	return r
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.DB.PingContext(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: "database unreachable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
