package settlementdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for payment persistence.
type Repository interface {
	// Insert persists a payment and fills in its ID.
	Insert(ctx context.Context, db bun.IDB, payment *Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Payment, error)

	// ListByPlayer returns a player's payments, newest first.
	ListByPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]Payment, error)

	// ListAll returns every payment ordered by ID.
	ListAll(ctx context.Context, db bun.IDB) ([]Payment, error)

	// DeleteByPlayer removes the payments owned by a player. Rows on other
	// players that reference it as a transfer counterparty are kept.
	DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error)

	// DeleteAll removes every payment.
	DeleteAll(ctx context.Context, db bun.IDB) (int64, error)
}
