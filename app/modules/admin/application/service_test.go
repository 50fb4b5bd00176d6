package adminservice

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/internal/testutils"
	"github.com/Black-And-White-Club/poker-ledger/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(password string) *AdminService {
	return NewAdminService(password, jwt.NewService("secret"), time.Hour, testutils.DiscardLogger())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		wantErr  error
	}{
		{name: "correct password", password: "hunter2", attempt: "hunter2"},
		{name: "wrong password", password: "hunter2", attempt: "hunter3", wantErr: ErrInvalidCredentials},
		{name: "prefix of password", password: "hunter2", attempt: "hunter", wantErr: ErrInvalidCredentials},
		{name: "empty configured password never matches", password: "", attempt: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(tt.password)
			session, err := svc.Login(context.Background(), tt.attempt)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
		})
	}
}

func TestVerify(t *testing.T) {
	svc := newService("hunter2")
	ctx := context.Background()

	session, err := svc.Login(ctx, "hunter2")
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, adminSubject, claims.Subject)

	_, err = svc.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	forged, err := jwt.NewService("other-secret").GenerateToken(adminSubject, jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, forged)
	assert.ErrorIs(t, err, jwt.ErrInvalidSignature)

	wrongRole, err := jwt.NewService("secret").GenerateToken("viewer", jwt.Role("viewer"), time.Hour)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, wrongRole)
	assert.ErrorIs(t, err, ErrNotAdmin)
}
