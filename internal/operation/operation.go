// Package operation wraps service operations with tracing, metrics, logging,
// panic recovery and transactions.
package operation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	"github.com/Black-And-White-Club/poker-ledger/pkg/utils/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is the outcome of an operation whose domain failures are errors.
type Result[S any] = results.OperationResult[S, error]

// Success wraps a success payload.
func Success[S any](s S) Result[S] { return results.SuccessResult[S, error](s) }

// Failure wraps a domain failure.
func Failure[S any](err error) Result[S] { return results.FailureResult[S, error](err) }

// Runner carries the collaborators every operation of one service shares.
type Runner struct {
	Service string
	Logger  *slog.Logger
	Metrics metrics.ServiceMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// NewRunner fills in defaults for nil collaborators.
func NewRunner(service string, logger *slog.Logger, m metrics.ServiceMetrics, tracer trace.Tracer, db *bun.DB) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Runner{Service: service, Logger: logger, Metrics: m, Tracer: tracer, DB: db}
}

// Func is the signature of an operation body.
type Func[S any] func(ctx context.Context) (Result[S], error)

// TxFunc is the signature of an operation body that runs against a db handle.
type TxFunc[S any] func(ctx context.Context, db bun.IDB) (Result[S], error)

// WithTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func WithTelemetry[S any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	op Func[S],
) (result Result[S], err error) {
	ctx, _ = attr.EnsureCorrelationID(ctx)

	var span trace.Span
	if r.Tracer != nil {
		ctx, span = r.Tracer.Start(ctx, r.Service+"."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	r.Metrics.RecordOperationAttempt(ctx, operationName, r.Service)

	startTime := time.Now()
	defer func() {
		r.Metrics.RecordOperationDuration(ctx, operationName, r.Service, time.Since(startTime))
	}()

	r.Logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, rec)
			r.Logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
			span.RecordError(err)
			result = Result[S]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		r.Logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		r.Logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(*result.Failure),
		)
	} else {
		r.Logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	r.Metrics.RecordOperationSuccess(ctx, operationName, r.Service)
	return result, nil
}

// errRollback aborts a transaction whose body reported a domain failure.
var errRollback = errors.New("operation reported failure")

// RunInTx runs fn inside a transaction. The transaction commits only when fn
// returns a success result; an error or a failure result rolls it back.
func RunInTx[S any](r *Runner, ctx context.Context, fn TxFunc[S]) (Result[S], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}

	var result Result[S]
	err := r.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if result.IsFailure() {
			return errRollback
		}
		return nil
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}
	if err != nil {
		return Result[S]{}, err
	}
	return result, nil
}

// Read runs fn directly against the pool, without a transaction.
func Read[S any](r *Runner, ctx context.Context, fn TxFunc[S]) (Result[S], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}
	return fn(ctx, r.DB)
}

// Unwrap converts an operation outcome into the (value, error) pair services
// return. Unclassified infrastructure errors become integrity errors.
func Unwrap[S any](result Result[S], err error, operationName string) (S, error) {
	var zero S
	if err != nil {
		return zero, ledgererr.AsIntegrity(err, operationName)
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, ledgererr.Wrap(nil, ledgererr.CodeTransaction, "%s returned no result", operationName)
	}
	return *result.Success, nil
}

// FromError routes a classified domain error into a failure result and
// returns any other error unchanged.
func FromError[S any](err error) (Result[S], error) {
	var domainErr *ledgererr.Error
	if errors.As(err, &domainErr) {
		return Failure[S](err), nil
	}
	return Result[S]{}, err
}
