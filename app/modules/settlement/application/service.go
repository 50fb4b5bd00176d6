package settlementservice

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/internal/operation"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	ledgerevents "github.com/Black-And-White-Club/poker-ledger/pkg/events/ledger"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const maxMethodLength = 50

// SettlementService implements the Service interface.
type SettlementService struct {
	repo     settlementdb.Repository
	players  playerdb.Repository
	balances BalanceReader
	eventBus eventbus.EventBus
	logger   *slog.Logger
	runner   *operation.Runner
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	repo settlementdb.Repository,
	players playerdb.Repository,
	balances BalanceReader,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SettlementService {
	runner := operation.NewRunner("SettlementService", logger, m, tracer, db)
	if eventBus == nil {
		eventBus = eventbus.NewNoop()
	}
	return &SettlementService{
		repo:     repo,
		players:  players,
		balances: balances,
		eventBus: eventBus,
		logger:   runner.Logger,
		runner:   runner,
	}
}

func (s *SettlementService) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "RecordPayment", strconv.FormatInt(req.PlayerID, 10), func(ctx context.Context) (operation.Result[*PaymentReceipt], error) {
		if err := validatePayment(req); err != nil {
			return operation.Failure[*PaymentReceipt](err), nil
		}
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*PaymentReceipt], error) {
			return s.recordPaymentLogic(ctx, db, req)
		})
	})
	receipt, err := operation.Unwrap(result, err, "RecordPayment")
	if err != nil {
		return nil, err
	}

	payload := ledgerevents.PaymentRecordedPayloadV1{
		PaymentID:        receipt.Payment.ID,
		PlayerID:         receipt.Payment.PlayerID,
		Amount:           receipt.Payment.Amount,
		PaymentDate:      receipt.Payment.PaymentDate,
		Method:           receipt.Payment.PaymentMethod,
		TransferPlayerID: receipt.Payment.TransferPlayerID,
	}
	if receipt.Mirror != nil {
		payload.MirrorPaymentID = &receipt.Mirror.ID
	}
	eventbus.PublishBestEffort(ctx, s.eventBus, s.logger,
		eventbus.FormatScopedTopic(ledgerevents.PaymentRecordedV1, strconv.FormatInt(req.PlayerID, 10)),
		payload)
	return receipt, nil
}

func validatePayment(req PaymentRequest) error {
	if req.Amount.IsZero() {
		return ledgererr.Validation("payment amount must be non-zero")
	}
	if req.Date.IsZero() {
		return ledgererr.Validation("payment date is required")
	}
	if len(strings.TrimSpace(req.Method)) > maxMethodLength {
		return ledgererr.Validation("payment method exceeds %d characters", maxMethodLength)
	}
	if req.TransferTo != nil && *req.TransferTo == req.PlayerID {
		return ledgererr.Validation("a player cannot transfer to themselves")
	}
	return nil
}

func (s *SettlementService) recordPaymentLogic(ctx context.Context, db bun.IDB, req PaymentRequest) (operation.Result[*PaymentReceipt], error) {
	for _, playerID := range payingPlayers(req) {
		if _, err := s.players.GetByID(ctx, db, playerID); err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return operation.Failure[*PaymentReceipt](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)), nil
			}
			return operation.Result[*PaymentReceipt]{}, err
		}
	}

	var method *string
	if m := strings.TrimSpace(req.Method); m != "" {
		method = &m
	}

	receipt := &PaymentReceipt{
		Payment: settlementdb.Payment{
			PlayerID:         req.PlayerID,
			Amount:           sharedtypes.RoundCents(req.Amount),
			PaymentDate:      req.Date,
			PaymentMethod:    method,
			TransferPlayerID: req.TransferTo,
		},
	}
	if err := s.repo.Insert(ctx, db, &receipt.Payment); err != nil {
		return operation.Result[*PaymentReceipt]{}, err
	}

	if req.TransferTo != nil {
		from := req.PlayerID
		receipt.Mirror = &settlementdb.Payment{
			PlayerID:         *req.TransferTo,
			Amount:           receipt.Payment.Amount.Neg(),
			PaymentDate:      req.Date,
			PaymentMethod:    method,
			TransferPlayerID: &from,
		}
		if err := s.repo.Insert(ctx, db, receipt.Mirror); err != nil {
			return operation.Result[*PaymentReceipt]{}, err
		}
	}

	s.logger.InfoContext(ctx, "Payment recorded",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("player_id", req.PlayerID),
		attr.Amount("amount", receipt.Payment.Amount),
		attr.Any("transfer_to", req.TransferTo),
	)
	return operation.Success(receipt), nil
}

func payingPlayers(req PaymentRequest) []int64 {
	if req.TransferTo == nil {
		return []int64{req.PlayerID}
	}
	return []int64{req.PlayerID, *req.TransferTo}
}

func (s *SettlementService) Outstanding(ctx context.Context, playerID int64) (*Outstanding, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Outstanding", strconv.FormatInt(playerID, 10), func(ctx context.Context) (operation.Result[*Outstanding], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*Outstanding], error) {
			if _, err := s.players.GetByID(ctx, db, playerID); err != nil {
				if errors.Is(err, playerdb.ErrNotFound) {
					return operation.Failure[*Outstanding](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)), nil
				}
				return operation.Result[*Outstanding]{}, err
			}
			entries, payments, err := s.playerHistory(ctx, db, playerID)
			if err != nil {
				return operation.Result[*Outstanding]{}, err
			}
			balance := latestBalance(entries)
			total := TotalPayments(payments)
			return operation.Success(&Outstanding{
				PlayerID:       playerID,
				CurrentBalance: balance,
				TotalPayments:  total,
				Remaining:      Remaining(balance, total),
			}), nil
		})
	})
	return operation.Unwrap(result, err, "Outstanding")
}

func (s *SettlementService) playerHistory(ctx context.Context, db bun.IDB, playerID int64) ([]ledgerdb.Entry, []settlementdb.Payment, error) {
	entries, err := s.balances.PlayerEntries(ctx, db, playerID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.repo.ListByPlayer(ctx, db, playerID)
	if err != nil {
		return nil, nil, err
	}
	return entries, payments, nil
}

// latestBalance expects entries in date order.
func latestBalance(entries []ledgerdb.Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	return entries[len(entries)-1].RunningBalance
}

func (s *SettlementService) LedgerSnapshot(ctx context.Context) ([]LedgerRow, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "LedgerSnapshot", "all", func(ctx context.Context) (operation.Result[[]LedgerRow], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[[]LedgerRow], error) {
			rows, err := s.ledgerRows(ctx, db)
			if err != nil {
				return operation.Result[[]LedgerRow]{}, err
			}
			return operation.Success(rows), nil
		})
	})
	return operation.Unwrap(result, err, "LedgerSnapshot")
}

func (s *SettlementService) ledgerRows(ctx context.Context, db bun.IDB) ([]LedgerRow, error) {
	players, err := s.players.List(ctx, db)
	if err != nil {
		return nil, err
	}
	balances, err := s.balances.PlayerBalances(ctx, db)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListAll(ctx, db)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]decimal.Decimal)
	for _, p := range payments {
		totals[p.PlayerID] = totals[p.PlayerID].Add(p.Amount)
	}

	rows := make([]LedgerRow, 0, len(players))
	for _, p := range players {
		row := LedgerRow{
			Player:         p,
			CurrentBalance: decimal.Zero,
			TotalPayments:  totals[p.ID],
		}
		if b, ok := balances[p.ID]; ok {
			row.CurrentBalance = b.Balance
			row.LatestGame = b.LatestGame
		}
		row.Remaining = Remaining(row.CurrentBalance, row.TotalPayments)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Player.Name) < strings.ToLower(rows[j].Player.Name)
	})
	return rows, nil
}

func (s *SettlementService) PlayerSnapshot(ctx context.Context, playerID int64) (*PlayerSnapshot, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "PlayerSnapshot", strconv.FormatInt(playerID, 10), func(ctx context.Context) (operation.Result[*PlayerSnapshot], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*PlayerSnapshot], error) {
			return s.playerSnapshotLogic(ctx, db, playerID)
		})
	})
	return operation.Unwrap(result, err, "PlayerSnapshot")
}

func (s *SettlementService) playerSnapshotLogic(ctx context.Context, db bun.IDB, playerID int64) (operation.Result[*PlayerSnapshot], error) {
	player, err := s.players.GetByID(ctx, db, playerID)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return operation.Failure[*PlayerSnapshot](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)), nil
		}
		return operation.Result[*PlayerSnapshot]{}, err
	}

	entries, payments, err := s.playerHistory(ctx, db, playerID)
	if err != nil {
		return operation.Result[*PlayerSnapshot]{}, err
	}

	names := map[int64]string{}
	for _, p := range payments {
		if p.TransferPlayerID == nil {
			continue
		}
		if _, seen := names[*p.TransferPlayerID]; seen {
			continue
		}
		counterparty, err := s.players.GetByID(ctx, db, *p.TransferPlayerID)
		switch {
		case err == nil:
			names[counterparty.ID] = counterparty.Name
		case errors.Is(err, playerdb.ErrNotFound):
			// Cleared counterparties leave a dangling reference.
			names[*p.TransferPlayerID] = ""
		default:
			return operation.Result[*PlayerSnapshot]{}, err
		}
	}

	snapshot := &PlayerSnapshot{
		Player:         *player,
		Entries:        make([]ledgerdb.Entry, 0, len(entries)),
		Payments:       make([]PaymentView, 0, len(payments)),
		TotalNetProfit: decimal.Zero,
		CurrentBalance: latestBalance(entries),
		TotalPayments:  TotalPayments(payments),
	}
	for i := len(entries) - 1; i >= 0; i-- {
		snapshot.Entries = append(snapshot.Entries, entries[i])
		snapshot.TotalNetProfit = snapshot.TotalNetProfit.Add(entries[i].NetProfit)
	}
	for _, p := range payments {
		view := PaymentView{Payment: p}
		if p.TransferPlayerID != nil {
			if name := names[*p.TransferPlayerID]; name != "" {
				view.CounterpartyName = &name
			}
		}
		snapshot.Payments = append(snapshot.Payments, view)
	}
	snapshot.Remaining = Remaining(snapshot.CurrentBalance, snapshot.TotalPayments)
	return operation.Success(snapshot), nil
}
