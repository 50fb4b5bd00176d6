package ledgerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ledger repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		Where("player_id = ?", playerID).
		Order("game_date ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for player %d: %w", playerID, err)
	}
	return entries, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("le.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry by ID: %w", err)
	}
	return entry, nil
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, entry *Entry) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(entry).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert entry for player %d on %s: %w", entry.PlayerID, entry.GameDate, err)
	}
	return nil
}

func (r *Impl) UpdateAmounts(ctx context.Context, db bun.IDB, entries []Entry) error {
	db = r.resolveDB(db)
	for i := range entries {
		e := &entries[i]
		_, err := db.NewUpdate().
			Model(e).
			Column("net_profit", "running_balance").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update entry %d: %w", e.ID, err)
		}
	}
	return nil
}

func (r *Impl) ExistsForDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Entry)(nil)).
		Where("game_date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check entries for %s: %w", date, err)
	}
	return exists, nil
}

func (r *Impl) ExistsForPlayerDate(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Entry)(nil)).
		Where("player_id = ?", playerID).
		Where("game_date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check entry for player %d on %s: %w", playerID, date, err)
	}
	return exists, nil
}

func (r *Impl) ListByDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		Relation("Player").
		Where("le.game_date = ?", date).
		Order("le.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for %s: %w", date, err)
	}
	return entries, nil
}

func (r *Impl) DistinctDates(ctx context.Context, db bun.IDB) ([]sharedtypes.GameDate, error) {
	db = r.resolveDB(db)
	var rows []struct {
		GameDate sharedtypes.GameDate `bun:"game_date"`
	}
	err := db.NewSelect().
		Model((*Entry)(nil)).
		Distinct().
		Column("game_date").
		Order("game_date DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list game dates: %w", err)
	}

	dates := make([]sharedtypes.GameDate, len(rows))
	for i, row := range rows {
		dates[i] = row.GameDate
	}
	return dates, nil
}

func (r *Impl) ListAll(ctx context.Context, db bun.IDB) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		Order("player_id ASC", "game_date ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (r *Impl) DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Entry)(nil)).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries for player %d: %w", playerID, err)
	}
	return result.RowsAffected()
}

func (r *Impl) DeleteAll(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Entry)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	return result.RowsAffected()
}

func (r *Impl) InsertHistory(ctx context.Context, db bun.IDB, h *History) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(h).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert ledger history for %q: %w", h.PlayerName, err)
	}
	return nil
}

func (r *Impl) ListHistory(ctx context.Context, db bun.IDB) ([]History, error) {
	db = r.resolveDB(db)
	var rows []History
	err := db.NewSelect().
		Model(&rows).
		Order("cleared_date DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger history: %w", err)
	}
	return rows, nil
}

func (r *Impl) DeleteAllHistory(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*History)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger history: %w", err)
	}
	return result.RowsAffected()
}
