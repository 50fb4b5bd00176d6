package ledgerhandlers

import (
	"context"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
)

// ------------------------
// Fake Ledger Service
// ------------------------

type FakeLedgerService struct {
	trace []string

	AppendEntryFunc    func(ctx context.Context, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error)
	EditEntryFunc      func(ctx context.Context, entryID int64, net decimal.Decimal) (*ledgerservice.EntryEdit, error)
	CurrentBalanceFunc func(ctx context.Context, playerID int64) (decimal.Decimal, error)
	ClearLedgerFunc    func(ctx context.Context, playerID int64) (*ledgerdb.History, error)
	GameDatesFunc      func(ctx context.Context) ([]ledgerservice.MonthGroup, error)
	GameDetailFunc     func(ctx context.Context, date sharedtypes.GameDate) (*ledgerservice.GameDetail, error)
	HistoryFunc        func(ctx context.Context) ([]ledgerdb.History, error)
	BalanceChartFunc   func(ctx context.Context, playerID int64) ([]byte, error)
	WipeAllFunc        func(ctx context.Context) (*ledgerservice.WipeResult, error)
}

func NewFakeLedgerService() *FakeLedgerService {
	return &FakeLedgerService{
		trace: []string{},
	}
}

func (f *FakeLedgerService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLedgerService) AppendEntry(ctx context.Context, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error) {
	f.record("AppendEntry")
	if f.AppendEntryFunc != nil {
		return f.AppendEntryFunc(ctx, playerID, date, net)
	}
	return nil, nil
}

func (f *FakeLedgerService) EditEntry(ctx context.Context, entryID int64, net decimal.Decimal) (*ledgerservice.EntryEdit, error) {
	f.record("EditEntry")
	if f.EditEntryFunc != nil {
		return f.EditEntryFunc(ctx, entryID, net)
	}
	return nil, nil
}

func (f *FakeLedgerService) CurrentBalance(ctx context.Context, playerID int64) (decimal.Decimal, error) {
	f.record("CurrentBalance")
	if f.CurrentBalanceFunc != nil {
		return f.CurrentBalanceFunc(ctx, playerID)
	}
	return decimal.Zero, nil
}

func (f *FakeLedgerService) ClearLedger(ctx context.Context, playerID int64) (*ledgerdb.History, error) {
	f.record("ClearLedger")
	if f.ClearLedgerFunc != nil {
		return f.ClearLedgerFunc(ctx, playerID)
	}
	return nil, nil
}

func (f *FakeLedgerService) GameDates(ctx context.Context) ([]ledgerservice.MonthGroup, error) {
	f.record("GameDates")
	if f.GameDatesFunc != nil {
		return f.GameDatesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeLedgerService) GameDetail(ctx context.Context, date sharedtypes.GameDate) (*ledgerservice.GameDetail, error) {
	f.record("GameDetail")
	if f.GameDetailFunc != nil {
		return f.GameDetailFunc(ctx, date)
	}
	return nil, nil
}

func (f *FakeLedgerService) History(ctx context.Context) ([]ledgerdb.History, error) {
	f.record("History")
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx)
	}
	return nil, nil
}

func (f *FakeLedgerService) BalanceChart(ctx context.Context, playerID int64) ([]byte, error) {
	f.record("BalanceChart")
	if f.BalanceChartFunc != nil {
		return f.BalanceChartFunc(ctx, playerID)
	}
	return nil, nil
}

func (f *FakeLedgerService) WipeAll(ctx context.Context) (*ledgerservice.WipeResult, error) {
	f.record("WipeAll")
	if f.WipeAllFunc != nil {
		return f.WipeAllFunc(ctx)
	}
	return nil, nil
}

func (f *FakeLedgerService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ ledgerservice.Service = (*FakeLedgerService)(nil)
