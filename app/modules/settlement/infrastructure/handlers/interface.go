package settlementhandlers

import "net/http"

// Handlers defines the settlement HTTP handlers.
type Handlers interface {
	HandleLedgerSnapshot(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
	HandlePlayerSnapshot(w http.ResponseWriter, r *http.Request)
	HandleOutstanding(w http.ResponseWriter, r *http.Request)
	HandleRecordPayment(w http.ResponseWriter, r *http.Request)
}
