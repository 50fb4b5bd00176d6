package playerhandlers

import "net/http"

// Handlers defines the player HTTP handlers.
type Handlers interface {
	HandleListPlayers(w http.ResponseWriter, r *http.Request)
	HandleUpdatePaymentInfo(w http.ResponseWriter, r *http.Request)
}
