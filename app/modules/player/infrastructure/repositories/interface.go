package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for player persistence.
type Repository interface {
	// List returns every player ordered by name.
	List(ctx context.Context, db bun.IDB) ([]Player, error)

	// GetByID retrieves a player by ID.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Player, error)

	// Create inserts a player and fills in its ID.
	Create(ctx context.Context, db bun.IDB, player *Player) error

	// UpdatePaymentInfo replaces the optional payment fields.
	UpdatePaymentInfo(ctx context.Context, db bun.IDB, id int64, method, paymentID *string) error

	// Delete removes a player row.
	Delete(ctx context.Context, db bun.IDB, id int64) error

	// DeleteAll removes every player and reports how many were removed.
	DeleteAll(ctx context.Context, db bun.IDB) (int64, error)
}
