package settlement

import (
	"context"
	"log/slog"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
	settlementhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/handlers"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	settlementrouter "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/router"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the settlement module.
type Module struct {
	Repository        settlementdb.Repository
	SettlementService *settlementservice.SettlementService
	Router            *settlementrouter.Router
}

// NewSettlementModule creates the payment repository. The service needs the
// ledger's balance reader, which in turn needs the repository, so it is wired
// separately by Attach.
func NewSettlementModule(ctx context.Context, logger *slog.Logger, db *bun.DB) *Module {
	logger.InfoContext(ctx, "settlement.NewSettlementModule initializing")
	return &Module{Repository: settlementdb.NewRepository(db)}
}

// Attach builds the service, handlers and router.
func (m *Module) Attach(
	logger *slog.Logger,
	svcMetrics metrics.ServiceMetrics,
	tracer trace.Tracer,
	eventBus eventbus.EventBus,
	db *bun.DB,
	players playerdb.Repository,
	balances settlementservice.BalanceReader,
) {
	m.SettlementService = settlementservice.NewSettlementService(m.Repository, players, balances, eventBus, logger, svcMetrics, tracer, db)
	m.Router = settlementrouter.NewRouter(settlementhandlers.NewSettlementHandlers(m.SettlementService, logger, tracer))
}
