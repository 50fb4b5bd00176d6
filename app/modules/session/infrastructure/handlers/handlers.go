package sessionhandlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	sessionservice "github.com/Black-And-White-Club/poker-ledger/app/modules/session/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxUploadBytes bounds an uploaded results file when no limit is configured.
const DefaultMaxUploadBytes = 16 << 20

// SessionHandlers implements the Handlers interface.
type SessionHandlers struct {
	service        sessionservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	maxUploadBytes int64
}

// NewSessionHandlers creates a new SessionHandlers instance.
func NewSessionHandlers(
	service sessionservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	maxUploadBytes int64,
) Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &SessionHandlers{
		service:        service,
		logger:         logger,
		tracer:         tracer,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleStageImport accepts a multipart form with a "file" part and an
// optional "game_date" field. A blank date means today.
func (h *SessionHandlers) HandleStageImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SessionHandlers.HandleStageImport")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, r, h.logger, ledgererr.Validation("upload exceeds %d bytes", h.maxUploadBytes))
			return
		}
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, r, h.logger, ledgererr.Validation("failed to read upload: %v", err))
		return
	}

	dateInput := strings.TrimSpace(r.FormValue("game_date"))
	if dateInput == "" {
		dateInput = "today"
	}

	staged, err := h.service.ImportFile(ctx, dateInput, header.Filename, data)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, staged)
}

func (h *SessionHandlers) HandleConfirmImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SessionHandlers.HandleConfirmImport")
	defer span.End()

	var req sessionservice.ConfirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	receipt, err := h.service.ConfirmImport(ctx, req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, receipt)
}
