package adminservice

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/pkg/jwt"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
)

const adminSubject = "admin"

// AdminService implements the Service interface.
type AdminService struct {
	password []byte
	tokens   jwt.Service
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(password string, tokens jwt.Service, ttl time.Duration, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		password: []byte(password),
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AdminService) Login(ctx context.Context, password string) (*Session, error) {
	if len(s.password) == 0 || subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		s.logger.WarnContext(ctx, "Admin login rejected", attr.ExtractCorrelationID(ctx))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(adminSubject, jwt.RoleAdmin, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue admin session: %w", err)
	}

	s.logger.InfoContext(ctx, "Admin logged in", attr.ExtractCorrelationID(ctx))
	return &Session{Token: token, ExpiresAt: s.now().Add(s.ttl)}, nil
}

func (s *AdminService) Verify(ctx context.Context, token string) (*jwt.AdminClaims, error) {
	if token == "" {
		return nil, ErrNotAdmin
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.logger.DebugContext(ctx, "Admin session rejected", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNotAdmin, err)
	}
	if claims.Role != string(jwt.RoleAdmin) {
		return nil, ErrNotAdmin
	}
	return claims, nil
}
