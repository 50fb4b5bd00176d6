package playerservice

import (
	"context"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace []string

	ListFunc              func(ctx context.Context, db bun.IDB) ([]playerdb.Player, error)
	GetByIDFunc           func(ctx context.Context, db bun.IDB, id int64) (*playerdb.Player, error)
	CreateFunc            func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	UpdatePaymentInfoFunc func(ctx context.Context, db bun.IDB, id int64, method, paymentID *string) error
	DeleteFunc            func(ctx context.Context, db bun.IDB, id int64) error
	DeleteAllFunc         func(ctx context.Context, db bun.IDB) (int64, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{
		trace: []string{},
	}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakePlayerRepo) List(ctx context.Context, db bun.IDB) ([]playerdb.Player, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakePlayerRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*playerdb.Player, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) Create(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) UpdatePaymentInfo(ctx context.Context, db bun.IDB, id int64, method, paymentID *string) error {
	f.record("UpdatePaymentInfo")
	if f.UpdatePaymentInfoFunc != nil {
		return f.UpdatePaymentInfoFunc(ctx, db, id, method, paymentID)
	}
	return nil
}

func (f *FakePlayerRepo) Delete(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

func (f *FakePlayerRepo) DeleteAll(ctx context.Context, db bun.IDB) (int64, error) {
	f.record("DeleteAll")
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx, db)
	}
	return 0, nil
}

// --- Accessors for assertions ---

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ playerdb.Repository = (*FakePlayerRepo)(nil)
