package playerhandlers

import (
	"context"

	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
)

// ------------------------
// Fake Player Service
// ------------------------

type FakePlayerService struct {
	trace []string

	ListPlayersFunc       func(ctx context.Context) ([]playerdb.Player, error)
	GetPlayerFunc         func(ctx context.Context, id int64) (*playerdb.Player, error)
	ResolveFunc           func(ctx context.Context, name string) (*playerdb.Player, bool, error)
	UpdatePaymentInfoFunc func(ctx context.Context, id int64, method, paymentID string) (*playerdb.Player, error)
}

func NewFakePlayerService() *FakePlayerService {
	return &FakePlayerService{
		trace: []string{},
	}
}

func (f *FakePlayerService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerService) ListPlayers(ctx context.Context) ([]playerdb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx)
	}
	return nil, nil
}

func (f *FakePlayerService) GetPlayer(ctx context.Context, id int64) (*playerdb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakePlayerService) Resolve(ctx context.Context, name string) (*playerdb.Player, bool, error) {
	f.record("Resolve")
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, name)
	}
	return nil, false, nil
}

func (f *FakePlayerService) UpdatePaymentInfo(ctx context.Context, id int64, method, paymentID string) (*playerdb.Player, error) {
	f.record("UpdatePaymentInfo")
	if f.UpdatePaymentInfoFunc != nil {
		return f.UpdatePaymentInfoFunc(ctx, id, method, paymentID)
	}
	return nil, nil
}

func (f *FakePlayerService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ playerservice.Service = (*FakePlayerService)(nil)
