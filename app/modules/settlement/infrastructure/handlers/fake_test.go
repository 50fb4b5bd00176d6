package settlementhandlers

import (
	"context"

	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
)

// ------------------------
// Fake Settlement Service
// ------------------------

type FakeSettlementService struct {
	trace []string

	RecordPaymentFunc  func(ctx context.Context, req settlementservice.PaymentRequest) (*settlementservice.PaymentReceipt, error)
	OutstandingFunc    func(ctx context.Context, playerID int64) (*settlementservice.Outstanding, error)
	LedgerSnapshotFunc func(ctx context.Context) ([]settlementservice.LedgerRow, error)
	PlayerSnapshotFunc func(ctx context.Context, playerID int64) (*settlementservice.PlayerSnapshot, error)
	ExportFunc         func(ctx context.Context, format settlementservice.ExportFormat) (*settlementservice.ExportFile, error)
}

func NewFakeSettlementService() *FakeSettlementService {
	return &FakeSettlementService{
		trace: []string{},
	}
}

func (f *FakeSettlementService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSettlementService) RecordPayment(ctx context.Context, req settlementservice.PaymentRequest) (*settlementservice.PaymentReceipt, error) {
	f.record("RecordPayment")
	if f.RecordPaymentFunc != nil {
		return f.RecordPaymentFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeSettlementService) Outstanding(ctx context.Context, playerID int64) (*settlementservice.Outstanding, error) {
	f.record("Outstanding")
	if f.OutstandingFunc != nil {
		return f.OutstandingFunc(ctx, playerID)
	}
	return nil, nil
}

func (f *FakeSettlementService) LedgerSnapshot(ctx context.Context) ([]settlementservice.LedgerRow, error) {
	f.record("LedgerSnapshot")
	if f.LedgerSnapshotFunc != nil {
		return f.LedgerSnapshotFunc(ctx)
	}
	return nil, nil
}

func (f *FakeSettlementService) PlayerSnapshot(ctx context.Context, playerID int64) (*settlementservice.PlayerSnapshot, error) {
	f.record("PlayerSnapshot")
	if f.PlayerSnapshotFunc != nil {
		return f.PlayerSnapshotFunc(ctx, playerID)
	}
	return nil, nil
}

func (f *FakeSettlementService) Export(ctx context.Context, format settlementservice.ExportFormat) (*settlementservice.ExportFile, error) {
	f.record("Export")
	if f.ExportFunc != nil {
		return f.ExportFunc(ctx, format)
	}
	return nil, nil
}

func (f *FakeSettlementService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ settlementservice.Service = (*FakeSettlementService)(nil)
