package settlementmigrations

import (
	"context"
	"fmt"

	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating payments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*settlementdb.Payment)(nil)).
				IfNotExists().
				ForeignKey(`("player_id") REFERENCES "players" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create payments table: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*settlementdb.Payment)(nil)).
				Index("idx_payments_player_id").
				Column("player_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create payments player index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping payments table...")
		if _, err := db.NewDropTable().
			Model((*settlementdb.Payment)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop payments table: %w", err)
		}
		return nil
	})
}
