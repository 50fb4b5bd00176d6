package session

import (
	"context"
	"log/slog"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	sessionservice "github.com/Black-And-White-Club/poker-ledger/app/modules/session/application"
	"github.com/Black-And-White-Club/poker-ledger/app/modules/session/application/parsers"
	sessionhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/session/infrastructure/handlers"
	sessionrouter "github.com/Black-And-White-Club/poker-ledger/app/modules/session/infrastructure/router"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the session import module. It owns no tables; entries
// are written through the ledger.
type Module struct {
	SessionService *sessionservice.SessionService
	Router         *sessionrouter.Router
}

// NewSessionModule creates and initializes a new session module.
func NewSessionModule(
	ctx context.Context,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
	players playerdb.Repository,
	entries sessionservice.DateChecker,
	appender sessionservice.EntryAppender,
	maxUploadBytes int64,
) *Module {
	logger.InfoContext(ctx, "session.NewSessionModule initializing")

	service := sessionservice.NewSessionService(players, entries, appender, parsers.NewFactory(), eventBus, logger, m, tracer, db)
	handlers := sessionhandlers.NewSessionHandlers(service, logger, tracer, maxUploadBytes)

	return &Module{
		SessionService: service,
		Router:         sessionrouter.NewRouter(handlers),
	}
}
