package adminhandlers

import (
	"context"

	adminservice "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/application"
	"github.com/Black-And-White-Club/poker-ledger/pkg/jwt"
)

// ------------------------
// Fake Admin Service
// ------------------------

type FakeAdminService struct {
	trace []string

	LoginFunc  func(ctx context.Context, password string) (*adminservice.Session, error)
	VerifyFunc func(ctx context.Context, token string) (*jwt.AdminClaims, error)
}

func NewFakeAdminService() *FakeAdminService {
	return &FakeAdminService{
		trace: []string{},
	}
}

func (f *FakeAdminService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAdminService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAdminService) Login(ctx context.Context, password string) (*adminservice.Session, error) {
	f.record("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, password)
	}
	return nil, adminservice.ErrInvalidCredentials
}

func (f *FakeAdminService) Verify(ctx context.Context, token string) (*jwt.AdminClaims, error) {
	f.record("Verify")
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, token)
	}
	return nil, adminservice.ErrNotAdmin
}

var _ adminservice.Service = (*FakeAdminService)(nil)
