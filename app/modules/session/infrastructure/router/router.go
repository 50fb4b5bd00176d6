package sessionrouter

import (
	"net/http"

	sessionhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/session/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router mounts the session import routes.
type Router struct {
	handlers sessionhandlers.Handlers
}

// NewRouter creates a new session router.
func NewRouter(handlers sessionhandlers.Handlers) *Router {
	return &Router{handlers: handlers}
}

// Mount registers the routes on r. Both routes mutate the ledger and require admin.
func (rt *Router) Mount(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/sessions/stage", rt.handlers.HandleStageImport)
		r.Post("/sessions/confirm", rt.handlers.HandleConfirmImport)
	})
}
