package playerdb_test

import (
	"context"
	"testing"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreateAndList(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := playerdb.NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{"  zed ", "Alice", "bob"} {
		p := &playerdb.Player{Name: name}
		require.NoError(t, repo.Create(ctx, nil, p))
		assert.NotZero(t, p.ID)
	}

	players, err := repo.List(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alice", "bob", "zed"}, names)
}

func TestRepository_CaseInsensitiveUniqueName(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := playerdb.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, nil, &playerdb.Player{Name: "Bob"}))

	for _, name := range []string{"BOB", " bob "} {
		err := repo.Create(ctx, nil, &playerdb.Player{Name: name})
		assert.ErrorIs(t, err, playerdb.ErrDuplicateName, name)
	}
}

func TestRepository_GetUpdateDelete(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := playerdb.NewRepository(db)
	ctx := context.Background()

	p := &playerdb.Player{Name: "Carol"}
	require.NoError(t, repo.Create(ctx, db, p))

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "update payment info",
			run: func(t *testing.T) {
				require.NoError(t, repo.UpdatePaymentInfo(ctx, db, p.ID, testutils.Ptr("Venmo"), testutils.Ptr("@carol")))
				got, err := repo.GetByID(ctx, db, p.ID)
				require.NoError(t, err)
				assert.Equal(t, "Venmo", *got.PreferredPaymentMethod)
				assert.Equal(t, "@carol", *got.PaymentID)
			},
		},
		{
			name: "clear payment info",
			run: func(t *testing.T) {
				require.NoError(t, repo.UpdatePaymentInfo(ctx, db, p.ID, nil, nil))
				got, err := repo.GetByID(ctx, db, p.ID)
				require.NoError(t, err)
				assert.Nil(t, got.PreferredPaymentMethod)
				assert.Nil(t, got.PaymentID)
			},
		},
		{
			name: "update missing player",
			run: func(t *testing.T) {
				assert.ErrorIs(t, repo.UpdatePaymentInfo(ctx, db, 9999, nil, nil), playerdb.ErrNotFound)
			},
		},
		{
			name: "delete",
			run: func(t *testing.T) {
				require.NoError(t, repo.Delete(ctx, db, p.ID))
				_, err := repo.GetByID(ctx, db, p.ID)
				assert.ErrorIs(t, err, playerdb.ErrNotFound)
				assert.ErrorIs(t, repo.Delete(ctx, db, p.ID), playerdb.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}

func TestRepository_DeleteAll(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := playerdb.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, db, &playerdb.Player{Name: "A"}))
	require.NoError(t, repo.Create(ctx, db, &playerdb.Player{Name: "B"}))

	n, err := repo.DeleteAll(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	players, err := repo.List(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, players)
}
