package ledgermigrations

import (
	"context"
	"fmt"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating ledger_entries and ledger_history tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*ledgerdb.Entry)(nil)).
				IfNotExists().
				ForeignKey(`("player_id") REFERENCES "players" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create ledger_entries table: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*ledgerdb.Entry)(nil)).
				Index("idx_ledger_entries_player_date").
				Unique().
				Column("player_id", "game_date").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create ledger_entries player/date index: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*ledgerdb.Entry)(nil)).
				Index("idx_ledger_entries_game_date").
				Column("game_date").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create ledger_entries date index: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*ledgerdb.History)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create ledger_history table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ledger_entries and ledger_history tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*ledgerdb.History)(nil), (*ledgerdb.Entry)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop ledger table: %w", err)
				}
			}
			return nil
		})
	})
}
