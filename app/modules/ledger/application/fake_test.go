package ledgerservice

import (
	"context"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Ledger Repo
// ------------------------

type FakeLedgerRepo struct {
	trace []string

	ListByPlayerFunc        func(ctx context.Context, db bun.IDB, playerID int64) ([]ledgerdb.Entry, error)
	GetByIDFunc             func(ctx context.Context, db bun.IDB, id int64) (*ledgerdb.Entry, error)
	InsertFunc              func(ctx context.Context, db bun.IDB, entry *ledgerdb.Entry) error
	UpdateAmountsFunc       func(ctx context.Context, db bun.IDB, entries []ledgerdb.Entry) error
	ExistsForDateFunc       func(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) (bool, error)
	ExistsForPlayerDateFunc func(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate) (bool, error)
	ListByDateFunc          func(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) ([]ledgerdb.Entry, error)
	DistinctDatesFunc       func(ctx context.Context, db bun.IDB) ([]sharedtypes.GameDate, error)
	ListAllFunc             func(ctx context.Context, db bun.IDB) ([]ledgerdb.Entry, error)
	DeleteByPlayerFunc      func(ctx context.Context, db bun.IDB, playerID int64) (int64, error)
	DeleteAllFunc           func(ctx context.Context, db bun.IDB) (int64, error)
	InsertHistoryFunc       func(ctx context.Context, db bun.IDB, h *ledgerdb.History) error
	ListHistoryFunc         func(ctx context.Context, db bun.IDB) ([]ledgerdb.History, error)
	DeleteAllHistoryFunc    func(ctx context.Context, db bun.IDB) (int64, error)
}

func NewFakeLedgerRepo() *FakeLedgerRepo {
	return &FakeLedgerRepo{
		trace: []string{},
	}
}

func (f *FakeLedgerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeLedgerRepo) ListByPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]ledgerdb.Entry, error) {
	f.record("ListByPlayer")
	if f.ListByPlayerFunc != nil {
		return f.ListByPlayerFunc(ctx, db, playerID)
	}
	return nil, nil
}

func (f *FakeLedgerRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*ledgerdb.Entry, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, ledgerdb.ErrNotFound
}

func (f *FakeLedgerRepo) Insert(ctx context.Context, db bun.IDB, entry *ledgerdb.Entry) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeLedgerRepo) UpdateAmounts(ctx context.Context, db bun.IDB, entries []ledgerdb.Entry) error {
	f.record("UpdateAmounts")
	if f.UpdateAmountsFunc != nil {
		return f.UpdateAmountsFunc(ctx, db, entries)
	}
	return nil
}

func (f *FakeLedgerRepo) ExistsForDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) (bool, error) {
	f.record("ExistsForDate")
	if f.ExistsForDateFunc != nil {
		return f.ExistsForDateFunc(ctx, db, date)
	}
	return false, nil
}

func (f *FakeLedgerRepo) ExistsForPlayerDate(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate) (bool, error) {
	f.record("ExistsForPlayerDate")
	if f.ExistsForPlayerDateFunc != nil {
		return f.ExistsForPlayerDateFunc(ctx, db, playerID, date)
	}
	return false, nil
}

func (f *FakeLedgerRepo) ListByDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) ([]ledgerdb.Entry, error) {
	f.record("ListByDate")
	if f.ListByDateFunc != nil {
		return f.ListByDateFunc(ctx, db, date)
	}
	return nil, nil
}

func (f *FakeLedgerRepo) DistinctDates(ctx context.Context, db bun.IDB) ([]sharedtypes.GameDate, error) {
	f.record("DistinctDates")
	if f.DistinctDatesFunc != nil {
		return f.DistinctDatesFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeLedgerRepo) ListAll(ctx context.Context, db bun.IDB) ([]ledgerdb.Entry, error) {
	f.record("ListAll")
	if f.ListAllFunc != nil {
		return f.ListAllFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeLedgerRepo) DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error) {
	f.record("DeleteByPlayer")
	if f.DeleteByPlayerFunc != nil {
		return f.DeleteByPlayerFunc(ctx, db, playerID)
	}
	return 0, nil
}

func (f *FakeLedgerRepo) DeleteAll(ctx context.Context, db bun.IDB) (int64, error) {
	f.record("DeleteAll")
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx, db)
	}
	return 0, nil
}

func (f *FakeLedgerRepo) InsertHistory(ctx context.Context, db bun.IDB, h *ledgerdb.History) error {
	f.record("InsertHistory")
	if f.InsertHistoryFunc != nil {
		return f.InsertHistoryFunc(ctx, db, h)
	}
	return nil
}

func (f *FakeLedgerRepo) ListHistory(ctx context.Context, db bun.IDB) ([]ledgerdb.History, error) {
	f.record("ListHistory")
	if f.ListHistoryFunc != nil {
		return f.ListHistoryFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeLedgerRepo) DeleteAllHistory(ctx context.Context, db bun.IDB) (int64, error) {
	f.record("DeleteAllHistory")
	if f.DeleteAllHistoryFunc != nil {
		return f.DeleteAllHistoryFunc(ctx, db)
	}
	return 0, nil
}

// --- Accessors for assertions ---

func (f *FakeLedgerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ ledgerdb.Repository = (*FakeLedgerRepo)(nil)
