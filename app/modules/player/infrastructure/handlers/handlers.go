package playerhandlers

import (
	"log/slog"
	"net/http"

	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"go.opentelemetry.io/otel/trace"
)

// PlayerHandlers implements the Handlers interface.
type PlayerHandlers struct {
	service playerservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPlayerHandlers creates a new PlayerHandlers instance.
func NewPlayerHandlers(
	service playerservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &PlayerHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// PlayerSummary is the id/name pair used by pickers.
type PlayerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UpdatePaymentInfoRequest is the body of PATCH /players/{id}.
type UpdatePaymentInfoRequest struct {
	PreferredPaymentMethod string `json:"preferred_payment_method"`
	PaymentID              string `json:"payment_id"`
}

// HandleListPlayers returns every player's id and name.
func (h *PlayerHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleListPlayers")
	defer span.End()

	players, err := h.service.ListPlayers(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerSummary{ID: p.ID, Name: p.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdatePaymentInfo sets a player's preferred payment method and ID.
func (h *PlayerHandlers) HandleUpdatePaymentInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleUpdatePaymentInfo")
	defer span.End()

	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var req UpdatePaymentInfoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	player, err := h.service.UpdatePaymentInfo(ctx, id, req.PreferredPaymentMethod, req.PaymentID)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, player)
}

