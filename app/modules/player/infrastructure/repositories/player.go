package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
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

func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		OrderExpr("lower(name) ASC").
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}
	return player, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	player.Name = strings.TrimSpace(player.Name)
	if _, err := db.NewInsert().Model(player).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, player.Name)
		}
		return fmt.Errorf("failed to create player %q: %w", player.Name, err)
	}
	return nil
}

func (r *Impl) UpdatePaymentInfo(ctx context.Context, db bun.IDB, id int64, method, paymentID *string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("preferred_payment_method = ?", method).
		Set("payment_id = ?", paymentID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment info: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) DeleteAll(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	return result.RowsAffected()
}
