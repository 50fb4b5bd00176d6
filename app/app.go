package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/poker-ledger/app/modules/admin"
	"github.com/Black-And-White-Club/poker-ledger/app/modules/ledger"
	"github.com/Black-And-White-Club/poker-ledger/app/modules/player"
	"github.com/Black-And-White-Club/poker-ledger/app/modules/session"
	"github.com/Black-And-White-Club/poker-ledger/app/modules/settlement"
	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/schema"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	watermillutil "github.com/Black-And-White-Club/poker-ledger/internal/watermill"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// App holds the wired modules and the resources they share.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	EventBus eventbus.EventBus
	Tracer   trace.Tracer
	Metrics  metrics.ServiceMetrics
	Modules  *Modules

	metricsHandler *metrics.Prometheus
}

// Modules are the application modules in dependency order.
type Modules struct {
	Admin      *admin.Module
	Player     *player.Module
	Settlement *settlement.Module
	Ledger     *ledger.Module
	Session    *session.Module
}

// NewApp opens the database, applies migrations, connects the event
// publisher and wires every module.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := bundb.Open(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}
	if err := bundb.Migrate(ctx, db, schema.Modules(), logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	publisher, err := watermillutil.NewPublisher(watermillutil.Config{
		Driver:       cfg.Events.Driver,
		NATSURL:      cfg.Events.NATSURL,
		KafkaBrokers: cfg.Events.KafkaBrokers,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	logger.InfoContext(ctx, "Event publisher ready", slog.String("driver", cfg.Events.Driver))

	app, err := New(ctx, cfg, logger, db, eventbus.New(publisher, logger))
	if err != nil {
		publisher.Close()
		db.Close()
		return nil, err
	}
	return app, nil
}

// New wires the modules onto an already opened database and event bus.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *bun.DB, bus eventbus.EventBus) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		EventBus: bus,
		Tracer:   observability.Tracer(),
		Metrics:  metrics.NewNoop(),
	}

	if cfg.Observability.MetricsEnabled {
		prom, err := metrics.NewPrometheus("poker_ledger")
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		app.Metrics = prom
		app.metricsHandler = prom
	}

	app.initializeModules(ctx)
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) {
	m := &Modules{}
	m.Admin = admin.NewAdminModule(ctx, app.Config, app.Logger, app.Tracer)
	m.Player = player.NewPlayerModule(ctx, app.Logger, app.Metrics, app.Tracer, app.DB)

	// Clearing a ledger deletes payments and settlement reads ledger
	// balances, so the settlement repository is built before the ledger and
	// its service after.
	m.Settlement = settlement.NewSettlementModule(ctx, app.Logger, app.DB)
	m.Ledger = ledger.NewLedgerModule(ctx, app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB, m.Player.Repository, m.Settlement.Repository)
	m.Settlement.Attach(app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB, m.Player.Repository, m.Ledger.LedgerService)

	m.Session = session.NewSessionModule(ctx, app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB,
		m.Player.Repository, m.Ledger.Repository, m.Ledger.LedgerService, app.Config.HTTP.MaxUploadBytes)

	app.Modules = m
	app.Logger.InfoContext(ctx, "All modules initialized")
}

// Close releases the event bus and the database.
func (app *App) Close() error {
	var errs []error
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
