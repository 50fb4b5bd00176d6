package ledgerhandlers

import (
	"log/slog"
	"net/http"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// LedgerHandlers implements the Handlers interface.
type LedgerHandlers struct {
	service ledgerservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLedgerHandlers creates a new LedgerHandlers instance.
func NewLedgerHandlers(
	service ledgerservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LedgerHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// EditEntryRequest is the body of PATCH /ledger/entries/{id}.
type EditEntryRequest struct {
	NetProfit *decimal.Decimal `json:"net_profit"`
}

func (h *LedgerHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleHistory")
	defer span.End()

	rows, err := h.service.History(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (h *LedgerHandlers) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleCalendar")
	defer span.End()

	groups, err := h.service.GameDates(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, groups)
}

func (h *LedgerHandlers) HandleGameDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleGameDetail")
	defer span.End()

	date, err := sharedtypes.ParseGameDate(chi.URLParam(r, "date"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("%v", err))
		return
	}

	detail, err := h.service.GameDetail(ctx, date)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, detail)
}

func (h *LedgerHandlers) HandleEditEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleEditEntry")
	defer span.End()

	entryID, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var req EditEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.NetProfit == nil {
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("net_profit is required"))
		return
	}

	edit, err := h.service.EditEntry(ctx, entryID, *req.NetProfit)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, edit)
}

func (h *LedgerHandlers) HandleBalanceChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleBalanceChart")
	defer span.End()

	playerID, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	png, err := h.service.BalanceChart(ctx, playerID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *LedgerHandlers) HandleClearLedger(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LedgerHandlers.HandleClearLedger")
	defer span.End()

	playerID, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	history, err := h.service.ClearLedger(ctx, playerID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, history)
}
