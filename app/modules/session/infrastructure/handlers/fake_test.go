package sessionhandlers

import (
	"context"

	sessionservice "github.com/Black-And-White-Club/poker-ledger/app/modules/session/application"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
)

// ------------------------
// Fake Session Service
// ------------------------

type FakeSessionService struct {
	trace []string

	StageImportFunc   func(ctx context.Context, date sharedtypes.GameDate, rows []sessionservice.ImportRow) (*sessionservice.StagedImport, error)
	ImportFileFunc    func(ctx context.Context, dateInput, fileName string, data []byte) (*sessionservice.StagedImport, error)
	ConfirmImportFunc func(ctx context.Context, req sessionservice.ConfirmRequest) (*sessionservice.ImportReceipt, error)
	ParseGameDateFunc func(input string) (sharedtypes.GameDate, error)
}

func NewFakeSessionService() *FakeSessionService {
	return &FakeSessionService{
		trace: []string{},
	}
}

func (f *FakeSessionService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSessionService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSessionService) StageImport(ctx context.Context, date sharedtypes.GameDate, rows []sessionservice.ImportRow) (*sessionservice.StagedImport, error) {
	f.record("StageImport")
	if f.StageImportFunc != nil {
		return f.StageImportFunc(ctx, date, rows)
	}
	return nil, nil
}

func (f *FakeSessionService) ImportFile(ctx context.Context, dateInput, fileName string, data []byte) (*sessionservice.StagedImport, error) {
	f.record("ImportFile")
	if f.ImportFileFunc != nil {
		return f.ImportFileFunc(ctx, dateInput, fileName, data)
	}
	return nil, nil
}

func (f *FakeSessionService) ConfirmImport(ctx context.Context, req sessionservice.ConfirmRequest) (*sessionservice.ImportReceipt, error) {
	f.record("ConfirmImport")
	if f.ConfirmImportFunc != nil {
		return f.ConfirmImportFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeSessionService) ParseGameDate(input string) (sharedtypes.GameDate, error) {
	f.record("ParseGameDate")
	if f.ParseGameDateFunc != nil {
		return f.ParseGameDateFunc(input)
	}
	return sharedtypes.GameDate{}, nil
}

var _ sessionservice.Service = (*FakeSessionService)(nil)
