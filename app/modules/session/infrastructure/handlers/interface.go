package sessionhandlers

import "net/http"

// Handlers defines the HTTP endpoints of the session importer.
type Handlers interface {
	HandleStageImport(w http.ResponseWriter, r *http.Request)
	HandleConfirmImport(w http.ResponseWriter, r *http.Request)
}
