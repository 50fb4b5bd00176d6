package ledgerrouter

import (
	"net/http"

	ledgerhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the ledger HTTP routes.
type Router struct {
	handlers ledgerhandlers.Handlers
}

// NewRouter creates a new ledger router.
func NewRouter(handlers ledgerhandlers.Handlers) *Router {
	return &Router{handlers: handlers}
}

// Mount registers public routes on r and admin-only routes behind requireAdmin.
func (rt *Router) Mount(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/ledger/history", rt.handlers.HandleHistory)
	r.Get("/ledger/calendar", rt.handlers.HandleCalendar)
	r.Get("/ledger/games/{date}", rt.handlers.HandleGameDetail)
	r.Get("/players/{id}/chart.png", rt.handlers.HandleBalanceChart)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Patch("/ledger/entries/{id}", rt.handlers.HandleEditEntry)
		r.Post("/players/{id}/clear", rt.handlers.HandleClearLedger)
	})
}
