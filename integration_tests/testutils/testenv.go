//go:build integration

package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/app"
	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/integration_tests/containers"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/schema"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
	App         *app.App
	Config      *config.Config
}

// NewTestEnvironment starts Postgres, applies migrations and wires the app.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := bundb.Open(ctx, dsn, logger)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, err
	}
	if err := bundb.Migrate(ctx, db, schema.Modules(), logger); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cfg := &config.Config{
		Postgres:      config.PostgresConfig{DSN: dsn},
		HTTP:          config.HTTPConfig{Addr: ":0", MaxUploadBytes: 1 << 20},
		Admin:         config.AdminConfig{Password: "pw", JWTSecret: "secret", SessionTTL: time.Hour},
		Events:        config.EventsConfig{Driver: "memory"},
		Observability: config.ObservabilityConfig{Environment: "test"},
	}
	a, err := app.New(ctx, cfg, logger, db, eventbus.NewNoop())
	if err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		return nil, err
	}

	return &TestEnvironment{Ctx: ctx, PgContainer: pgContainer, DB: db, App: a, Config: cfg}, nil
}

// Reset truncates every table so each test starts empty.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	_, err := env.DB.ExecContext(env.Ctx, "TRUNCATE payments, ledger_entries, ledger_history, players RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Cleanup releases the app and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.App != nil {
		env.App.Close()
	}
	if env.PgContainer != nil {
		env.PgContainer.Terminate(env.Ctx)
	}
}
