package settlementdb_test

import (
	"context"
	"testing"
	"time"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/testutils"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Payments(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	players := playerdb.NewRepository(db)
	repo := settlementdb.NewRepository(db)
	ctx := context.Background()

	alice := &playerdb.Player{Name: "Alice"}
	bob := &playerdb.Player{Name: "Bob"}
	require.NoError(t, players.Create(ctx, nil, alice))
	require.NoError(t, players.Create(ctx, nil, bob))

	older := &settlementdb.Payment{
		PlayerID:      alice.ID,
		Amount:        decimal.NewFromInt(20),
		PaymentDate:   sharedtypes.NewGameDate(2025, time.March, 1),
		PaymentMethod: testutils.Ptr("Cash"),
	}
	newer := &settlementdb.Payment{
		PlayerID:         alice.ID,
		Amount:           decimal.NewFromInt(50),
		PaymentDate:      sharedtypes.NewGameDate(2025, time.March, 9),
		TransferPlayerID: &bob.ID,
	}
	mirror := &settlementdb.Payment{
		PlayerID:         bob.ID,
		Amount:           decimal.NewFromInt(-50),
		PaymentDate:      sharedtypes.NewGameDate(2025, time.March, 9),
		TransferPlayerID: &alice.ID,
	}
	for _, p := range []*settlementdb.Payment{older, newer, mirror} {
		require.NoError(t, repo.Insert(ctx, nil, p))
		assert.NotZero(t, p.ID)
	}

	t.Run("list by player newest first", func(t *testing.T) {
		got, err := repo.ListByPlayer(ctx, nil, alice.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.True(t, got[0].IsTransfer())
		assert.False(t, got[1].IsTransfer())
		assert.Equal(t, "Cash", *got[1].PaymentMethod)
	})

	t.Run("delete by player keeps counterparty rows", func(t *testing.T) {
		n, err := repo.DeleteByPlayer(ctx, nil, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := repo.GetByID(ctx, nil, mirror.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, *got.TransferPlayerID)
	})

	t.Run("missing payment", func(t *testing.T) {
		_, err := repo.GetByID(ctx, nil, 9999)
		assert.ErrorIs(t, err, settlementdb.ErrNotFound)
	})
}
