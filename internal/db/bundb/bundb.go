package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// IsSQLite reports whether dsn selects the embedded SQLite driver.
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "sqlite://") || strings.HasPrefix(dsn, "file:") || dsn == ":memory:"
}

// Open connects to the database named by dsn and verifies the connection.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var db *bun.DB
	if IsSQLite(dsn) {
		sqldb, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// SQLite serialises writers; a single connection keeps transactions
		// and in-memory databases coherent.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	} else {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.InfoContext(ctx, "Database connected", slog.String("dialect", db.Dialect().Name().String()))
	return db, nil
}

func sqliteDSN(dsn string) string {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if path == ":memory:" {
		path = "file::memory:"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// ModuleMigrations is the migration set owned by one module.
type ModuleMigrations struct {
	Module     string
	Migrations *migrate.Migrations
}

// NewMigrator builds a migrator whose bookkeeping tables are scoped to the module.
func NewMigrator(db *bun.DB, m ModuleMigrations) *migrate.Migrator {
	return migrate.NewMigrator(db, m.Migrations,
		migrate.WithTableName(m.Module+"_migrations"),
		migrate.WithLocksTableName(m.Module+"_migration_locks"),
	)
}

// Migrate initialises and applies every module's migrations in order.
func Migrate(ctx context.Context, db *bun.DB, sets []ModuleMigrations, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, set := range sets {
		migrator := NewMigrator(db, set)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", set.Module, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", set.Module, err)
		}
		if group.IsZero() {
			logger.DebugContext(ctx, "No new migrations", slog.String("module", set.Module))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			slog.String("module", set.Module),
			slog.String("group", group.String()),
		)
	}
	return nil
}
