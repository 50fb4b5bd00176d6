package adminrouter

import (
	"net/http"

	adminhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// Router mounts the admin session routes.
type Router struct {
	handlers adminhandlers.Handlers
	throttle *adminhandlers.LoginThrottle
}

// NewRouter creates a new admin router. Login attempts are limited per IP.
func NewRouter(handlers adminhandlers.Handlers, throttle *adminhandlers.LoginThrottle) *Router {
	return &Router{handlers: handlers, throttle: throttle}
}

// Mount registers the routes on r.
func (rt *Router) Mount(r chi.Router) {
	r.With(adminhandlers.ThrottleMiddleware(rt.throttle)).Post("/admin/login", rt.handlers.HandleLogin)
	r.Post("/admin/logout", rt.handlers.HandleLogout)
	r.Get("/admin/session", rt.handlers.HandleStatus)
}

// RequireAdmin is the middleware other modules gate mutating routes with.
func (rt *Router) RequireAdmin(next http.Handler) http.Handler {
	return rt.handlers.RequireAdmin(next)
}
