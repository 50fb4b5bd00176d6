package settlementrouter

import (
	"net/http"

	settlementhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the settlement HTTP routes.
type Router struct {
	handlers settlementhandlers.Handlers
}

// NewRouter creates a new settlement router.
func NewRouter(handlers settlementhandlers.Handlers) *Router {
	return &Router{handlers: handlers}
}

// Mount registers public routes on r and admin-only routes behind requireAdmin.
func (rt *Router) Mount(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/ledger", rt.handlers.HandleLedgerSnapshot)
	r.Get("/ledger/export", rt.handlers.HandleExport)
	r.Get("/players/{id}", rt.handlers.HandlePlayerSnapshot)
	r.Get("/players/{id}/outstanding", rt.handlers.HandleOutstanding)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/payments", rt.handlers.HandleRecordPayment)
	})
}
