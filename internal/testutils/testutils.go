package testutils

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/schema"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteDB opens a private in-memory database with every module's
// migrations applied. The database is closed when the test ends.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := bundb.Open(ctx, "sqlite://:memory:", DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, bundb.Migrate(ctx, db, schema.Modules(), DiscardLogger()))
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
