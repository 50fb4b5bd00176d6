package settlementdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new payment repository.
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

func (r *Impl) Insert(ctx context.Context, db bun.IDB, payment *Payment) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(payment).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert payment for player %d: %w", payment.PlayerID, err)
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Payment, error) {
	db = r.resolveDB(db)
	payment := new(Payment)
	err := db.NewSelect().
		Model(payment).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return payment, nil
}

func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]Payment, error) {
	db = r.resolveDB(db)
	var payments []Payment
	err := db.NewSelect().
		Model(&payments).
		Where("player_id = ?", playerID).
		Order("payment_date DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for player %d: %w", playerID, err)
	}
	return payments, nil
}

func (r *Impl) ListAll(ctx context.Context, db bun.IDB) ([]Payment, error) {
	db = r.resolveDB(db)
	var payments []Payment
	if err := db.NewSelect().Model(&payments).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *Impl) DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Payment)(nil)).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments for player %d: %w", playerID, err)
	}
	return result.RowsAffected()
}

func (r *Impl) DeleteAll(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Payment)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments: %w", err)
	}
	return result.RowsAffected()
}
