package adminservice

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/pkg/jwt"
)

// Service defines the admin session operations.
type Service interface {
	// Login exchanges the shared admin password for a signed session token.
	Login(ctx context.Context, password string) (*Session, error)

	// Verify checks a session token and returns its claims.
	Verify(ctx context.Context, token string) (*jwt.AdminClaims, error)
}

// Session is an issued admin session.
type Session struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
