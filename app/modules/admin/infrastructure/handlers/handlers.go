package adminhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	adminservice "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/httpx"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

// AdminHandlers implements the Handlers interface.
type AdminHandlers struct {
	service      adminservice.Service
	logger       *slog.Logger
	tracer       trace.Tracer
	secureCookie bool
}

// NewAdminHandlers creates a new AdminHandlers instance. secureCookie marks
// the session cookie HTTPS-only.
func NewAdminHandlers(
	service adminservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	secureCookie bool,
) Handlers {
	return &AdminHandlers{
		service:      service,
		logger:       logger,
		tracer:       tracer,
		secureCookie: secureCookie,
	}
}

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// StatusResponse reports whether the caller holds an admin session.
type StatusResponse struct {
	Admin bool `json:"admin"`
}

func (h *AdminHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AdminHandlers.HandleLogin")
	defer span.End()

	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	session, err := h.service.Login(ctx, req.Password)
	if err != nil {
		if errors.Is(err, adminservice.ErrInvalidCredentials) {
			writeUnauthorized(w, err)
			return
		}
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, session)
}

func (h *AdminHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "AdminHandlers.HandleLogout")
	defer span.End()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AdminHandlers.HandleStatus")
	defer span.End()

	_, err := h.service.Verify(ctx, sessionToken(r))
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Admin: err == nil})
}

// RequireAdmin rejects requests without a valid admin session cookie.
func (h *AdminHandlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.service.Verify(r.Context(), sessionToken(r)); err != nil {
			h.logger.WarnContext(r.Context(), "Admin route rejected",
				attr.ExtractCorrelationID(r.Context()),
				attr.String("path", r.URL.Path),
			)
			writeUnauthorized(w, adminservice.ErrNotAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{Error: err.Error(), Code: "unauthorized"})
}
