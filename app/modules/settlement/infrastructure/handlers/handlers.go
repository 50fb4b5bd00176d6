package settlementhandlers

import (
	"log/slog"
	"net/http"
	"time"

	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// SettlementHandlers implements the Handlers interface.
type SettlementHandlers struct {
	service settlementservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewSettlementHandlers creates a new SettlementHandlers instance.
func NewSettlementHandlers(
	service settlementservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &SettlementHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
	}
}

// RecordPaymentRequest is the body of POST /payments. A missing payment date
// means today.
type RecordPaymentRequest struct {
	PlayerID      int64                `json:"player_id"`
	Amount        *decimal.Decimal     `json:"amount"`
	PaymentDate   sharedtypes.GameDate `json:"payment_date"`
	PaymentMethod string               `json:"payment_method"`
	TransferTo    *int64               `json:"transfer_to"`
}

func (h *SettlementHandlers) HandleLedgerSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettlementHandlers.HandleLedgerSnapshot")
	defer span.End()

	rows, err := h.service.LedgerSnapshot(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (h *SettlementHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettlementHandlers.HandleExport")
	defer span.End()

	format, err := settlementservice.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	file, err := h.service.Export(ctx, format)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.Attachment(w, file.ContentType, file.FileName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (h *SettlementHandlers) HandlePlayerSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettlementHandlers.HandlePlayerSnapshot")
	defer span.End()

	playerID, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	snapshot, err := h.service.PlayerSnapshot(ctx, playerID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *SettlementHandlers) HandleOutstanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettlementHandlers.HandleOutstanding")
	defer span.End()

	playerID, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	out, err := h.service.Outstanding(ctx, playerID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *SettlementHandlers) HandleRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SettlementHandlers.HandleRecordPayment")
	defer span.End()

	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if req.Amount == nil {
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("amount is required"))
		return
	}
	if req.PaymentDate.IsZero() {
		req.PaymentDate = sharedtypes.GameDateOf(h.now())
	}

	receipt, err := h.service.RecordPayment(ctx, settlementservice.PaymentRequest{
		PlayerID:   req.PlayerID,
		Amount:     *req.Amount,
		Date:       req.PaymentDate,
		Method:     req.PaymentMethod,
		TransferTo: req.TransferTo,
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, receipt)
}
