// Package httpx holds the JSON response helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds request bodies decoded by DecodeJSON.
const maxJSONBody = 1 << 20

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code and writes it as JSON. Server-side
// failures are logged and their details withheld from the response.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := ledgererr.HTTPStatus(err)
	body := ErrorResponse{Error: err.Error(), Code: string(ledgererr.CodeOf(err))}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		body.Error = http.StatusText(status)
	} else {
		logger.WarnContext(r.Context(), "Request rejected",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ledgererr.Validation("request body is empty")
		}
		return ledgererr.Validation("invalid request body: %v", err)
	}
	return nil
}

// PathInt64 parses a positive integer URL parameter.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ledgererr.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

// Attachment sets headers for a file download.
func Attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// CorrelationMiddleware places a correlation ID on every request context,
// reusing the X-Request-ID header when the caller supplies one.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx = attr.WithCorrelationID(ctx, id)
		}
		ctx, id := attr.EnsureCorrelationID(ctx)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
