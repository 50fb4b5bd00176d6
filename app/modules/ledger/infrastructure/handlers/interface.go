package ledgerhandlers

import "net/http"

// Handlers defines the ledger HTTP handlers.
type Handlers interface {
	HandleHistory(w http.ResponseWriter, r *http.Request)
	HandleCalendar(w http.ResponseWriter, r *http.Request)
	HandleGameDetail(w http.ResponseWriter, r *http.Request)
	HandleEditEntry(w http.ResponseWriter, r *http.Request)
	HandleBalanceChart(w http.ResponseWriter, r *http.Request)
	HandleClearLedger(w http.ResponseWriter, r *http.Request)
}
