package adminhandlers

import "net/http"

// Handlers defines the admin session endpoints.
type Handlers interface {
	HandleLogin(w http.ResponseWriter, r *http.Request)
	HandleLogout(w http.ResponseWriter, r *http.Request)
	HandleStatus(w http.ResponseWriter, r *http.Request)
	RequireAdmin(next http.Handler) http.Handler
}
