package ledger

import (
	"context"
	"log/slog"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	ledgerhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/handlers"
	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	ledgerrouter "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/router"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the ledger module.
type Module struct {
	Repository    ledgerdb.Repository
	LedgerService *ledgerservice.LedgerService
	Router        *ledgerrouter.Router
}

// NewLedgerModule creates and initializes a new ledger module.
func NewLedgerModule(
	ctx context.Context,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
	players playerdb.Repository,
	payments ledgerservice.PaymentStore,
) *Module {
	logger.InfoContext(ctx, "ledger.NewLedgerModule initializing")

	repo := ledgerdb.NewRepository(db)
	service := ledgerservice.NewLedgerService(repo, players, payments, eventBus, logger, m, tracer, db)
	handlers := ledgerhandlers.NewLedgerHandlers(service, logger, tracer)

	return &Module{
		Repository:    repo,
		LedgerService: service,
		Router:        ledgerrouter.NewRouter(handlers),
	}
}
