package playerrouter

import (
	"net/http"

	playerhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router registers the player HTTP routes.
type Router struct {
	handlers playerhandlers.Handlers
}

// NewRouter creates a new player router.
func NewRouter(handlers playerhandlers.Handlers) *Router {
	return &Router{handlers: handlers}
}

// Mount registers public routes on r and admin-only routes behind requireAdmin.
func (rt *Router) Mount(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/players", rt.handlers.HandleListPlayers)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Patch("/players/{id}", rt.handlers.HandleUpdatePaymentInfo)
	})
}
