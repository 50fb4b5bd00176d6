package playermigrations

import (
	"context"
	"fmt"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*playerdb.Player)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*playerdb.Player)(nil)).
				Index("idx_players_name_lower").
				Unique().
				ColumnExpr("lower(name)").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create players name index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping players table...")
		if _, err := db.NewDropTable().
			Model((*playerdb.Player)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}
		return nil
	})
}
