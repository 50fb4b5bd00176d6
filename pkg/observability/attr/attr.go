// Package attr holds the slog attribute helpers shared by services and handlers.
package attr

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ctxKey struct{}

// CorrelationIDKey is the log key used for the request or import correlation ID.
const CorrelationIDKey = "correlation_id"

// WithCorrelationID stores a correlation ID in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// EnsureCorrelationID returns a context that carries a correlation ID,
// generating one when none is present.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id := CorrelationID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCorrelationID(ctx, id), id
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// ExtractCorrelationID returns the correlation ID as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String(CorrelationIDKey, CorrelationID(ctx))
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Amount logs a money value in its canonical two-decimal form.
func Amount(key string, value decimal.Decimal) slog.Attr {
	return slog.String(key, value.StringFixed(2))
}

// Error logs err under the "error" key. A nil error logs an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
