package playerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/internal/operation"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxMethodLength    = 50
	maxPaymentIDLength = 100
)

// PlayerService implements the Service interface.
type PlayerService struct {
	repo   playerdb.Repository
	runner *operation.Runner
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(
	repo playerdb.Repository,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PlayerService {
	return &PlayerService{
		repo:   repo,
		runner: operation.NewRunner("PlayerService", logger, m, tracer, db),
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]playerdb.Player, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "ListPlayers", "all", func(ctx context.Context) (operation.Result[[]playerdb.Player], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[[]playerdb.Player], error) {
			players, err := s.repo.List(ctx, db)
			if err != nil {
				return operation.Result[[]playerdb.Player]{}, err
			}
			return operation.Success(players), nil
		})
	})
	return operation.Unwrap(result, err, "ListPlayers")
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (*playerdb.Player, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "GetPlayer", strconv.FormatInt(id, 10), func(ctx context.Context) (operation.Result[*playerdb.Player], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*playerdb.Player], error) {
			return s.getPlayerLogic(ctx, db, id)
		})
	})
	return operation.Unwrap(result, err, "GetPlayer")
}

func (s *PlayerService) getPlayerLogic(ctx context.Context, db bun.IDB, id int64) (operation.Result[*playerdb.Player], error) {
	player, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return operation.Failure[*playerdb.Player](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", id)), nil
		}
		return operation.Result[*playerdb.Player]{}, fmt.Errorf("failed to get player: %w", err)
	}
	return operation.Success(player), nil
}

// resolution is the outcome of a name lookup.
type resolution struct {
	player  *playerdb.Player
	matched bool
}

func (s *PlayerService) Resolve(ctx context.Context, name string) (*playerdb.Player, bool, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Resolve", NormalizeName(name), func(ctx context.Context) (operation.Result[resolution], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[resolution], error) {
			players, err := s.repo.List(ctx, db)
			if err != nil {
				return operation.Result[resolution]{}, err
			}
			p, ok := NewDirectory(players).Resolve(name)
			return operation.Success(resolution{player: p, matched: ok}), nil
		})
	})
	res, err := operation.Unwrap(result, err, "Resolve")
	if err != nil {
		return nil, false, err
	}
	return res.player, res.matched, nil
}

func (s *PlayerService) UpdatePaymentInfo(ctx context.Context, id int64, method, paymentID string) (*playerdb.Player, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "UpdatePaymentInfo", strconv.FormatInt(id, 10), func(ctx context.Context) (operation.Result[*playerdb.Player], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*playerdb.Player], error) {
			return s.updatePaymentInfoLogic(ctx, db, id, method, paymentID)
		})
	})
	return operation.Unwrap(result, err, "UpdatePaymentInfo")
}

func (s *PlayerService) updatePaymentInfoLogic(ctx context.Context, db bun.IDB, id int64, method, paymentID string) (operation.Result[*playerdb.Player], error) {
	methodPtr := optional(method)
	paymentIDPtr := optional(paymentID)
	if methodPtr != nil && len(*methodPtr) > maxMethodLength {
		return operation.Failure[*playerdb.Player](ledgererr.Validation("payment method exceeds %d characters", maxMethodLength)), nil
	}
	if paymentIDPtr != nil && len(*paymentIDPtr) > maxPaymentIDLength {
		return operation.Failure[*playerdb.Player](ledgererr.Validation("payment id exceeds %d characters", maxPaymentIDLength)), nil
	}

	if err := s.repo.UpdatePaymentInfo(ctx, db, id, methodPtr, paymentIDPtr); err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return operation.Failure[*playerdb.Player](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", id)), nil
		}
		return operation.Result[*playerdb.Player]{}, err
	}
	return s.getPlayerLogic(ctx, db, id)
}

// optional maps blank input to nil.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
