package player

import (
	"context"
	"log/slog"

	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	playerhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/handlers"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	playerrouter "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/router"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// Module represents the player module.
type Module struct {
	Repository    playerdb.Repository
	PlayerService *playerservice.PlayerService
	Router        *playerrouter.Router
}

// NewPlayerModule creates and initializes a new player module.
func NewPlayerModule(
	ctx context.Context,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *Module {
	logger.InfoContext(ctx, "player.NewPlayerModule initializing")

	repo := playerdb.NewRepository(db)
	service := playerservice.NewPlayerService(repo, logger, m, tracer, db)
	handlers := playerhandlers.NewPlayerHandlers(service, logger, tracer)

	return &Module{
		Repository:    repo,
		PlayerService: service,
		Router:        playerrouter.NewRouter(handlers),
	}
}
