package admin

import (
	"context"
	"log/slog"

	adminservice "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/application"
	adminhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/infrastructure/handlers"
	adminrouter "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/infrastructure/router"
	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/pkg/jwt"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	loginRate  = rate.Limit(1.0 / 6) // one attempt every six seconds
	loginBurst = 5
)

// Module represents the admin session module.
type Module struct {
	AdminService *adminservice.AdminService
	Router       *adminrouter.Router
}

// NewAdminModule creates and initializes a new admin module.
func NewAdminModule(ctx context.Context, cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) *Module {
	logger.InfoContext(ctx, "admin.NewAdminModule initializing")

	service := adminservice.NewAdminService(cfg.Admin.Password, jwt.NewService(cfg.Admin.JWTSecret), cfg.Admin.SessionTTL, logger)
	handlers := adminhandlers.NewAdminHandlers(service, logger, tracer, !cfg.IsDevelopment())
	throttle := adminhandlers.NewLoginThrottle(loginRate, loginBurst)

	return &Module{
		AdminService: service,
		Router:       adminrouter.NewRouter(handlers, throttle),
	}
}
