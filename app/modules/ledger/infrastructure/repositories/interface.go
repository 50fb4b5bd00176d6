package ledgerdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Repository defines the contract for ledger persistence.
type Repository interface {
	// ListByPlayer returns a player's entries ordered by game date.
	ListByPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]Entry, error)

	// GetByID retrieves an entry by ID.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Entry, error)

	// Insert persists a new entry and fills in its ID.
	Insert(ctx context.Context, db bun.IDB, entry *Entry) error

	// UpdateAmounts writes the net profit and running balance of each entry.
	UpdateAmounts(ctx context.Context, db bun.IDB, entries []Entry) error

	// ExistsForDate reports whether any entry exists for the date.
	ExistsForDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) (bool, error)

	// ExistsForPlayerDate reports whether the player has an entry for the date.
	ExistsForPlayerDate(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate) (bool, error)

	// ListByDate returns the entries for a date with their players loaded.
	ListByDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) ([]Entry, error)

	// DistinctDates returns every game date, newest first.
	DistinctDates(ctx context.Context, db bun.IDB) ([]sharedtypes.GameDate, error)

	// ListAll returns every entry ordered by player, then date.
	ListAll(ctx context.Context, db bun.IDB) ([]Entry, error)

	// DeleteByPlayer removes a player's entries.
	DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error)

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context, db bun.IDB) (int64, error)

	// InsertHistory archives a cleared balance.
	InsertHistory(ctx context.Context, db bun.IDB, h *History) error

	// ListHistory returns archived balances, newest clearing first.
	ListHistory(ctx context.Context, db bun.IDB) ([]History, error)

	// DeleteAllHistory removes every archived balance.
	DeleteAllHistory(ctx context.Context, db bun.IDB) (int64, error)
}
