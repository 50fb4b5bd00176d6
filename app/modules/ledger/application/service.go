package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
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

// LedgerService implements the Service interface.
type LedgerService struct {
	repo     ledgerdb.Repository
	players  playerdb.Repository
	payments PaymentStore
	eventBus eventbus.EventBus
	logger   *slog.Logger
	runner   *operation.Runner
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	repo ledgerdb.Repository,
	players playerdb.Repository,
	payments PaymentStore,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LedgerService {
	runner := operation.NewRunner("LedgerService", logger, m, tracer, db)
	if eventBus == nil {
		eventBus = eventbus.NewNoop()
	}
	return &LedgerService{
		repo:     repo,
		players:  players,
		payments: payments,
		eventBus: eventBus,
		logger:   runner.Logger,
		runner:   runner,
		now:      time.Now,
	}
}

func idString(v int64) string { return strconv.FormatInt(v, 10) }

// -----------------------------------------------------------------------------
// Entries
// -----------------------------------------------------------------------------

func (s *LedgerService) AppendEntry(ctx context.Context, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "AppendEntry", idString(playerID), func(ctx context.Context) (operation.Result[*ledgerdb.Entry], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*ledgerdb.Entry], error) {
			entry, err := s.AppendEntryTx(ctx, db, playerID, date, net)
			if err != nil {
				return operation.FromError[*ledgerdb.Entry](err)
			}
			return operation.Success(entry), nil
		})
	})
	return operation.Unwrap(result, err, "AppendEntry")
}

// AppendEntryTx appends an entry using db, which is normally a transaction
// owned by the caller. The new balance is the previous entry's balance plus
// net; a backdated entry triggers a full recompute of the player's history.
func (s *LedgerService) AppendEntryTx(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error) {
	if date.IsZero() {
		return nil, ledgererr.Validation("game date is required")
	}
	if _, err := s.players.GetByID(ctx, db, playerID); err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return nil, ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)
		}
		return nil, err
	}

	exists, err := s.repo.ExistsForPlayerDate(ctx, db, playerID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ledgererr.New(ledgererr.CodeDuplicateEntry, "player %d already has an entry for %s", playerID, date)
	}

	history, err := s.repo.ListByPlayer(ctx, db, playerID)
	if err != nil {
		return nil, err
	}

	net = sharedtypes.RoundCents(net)
	entry := &ledgerdb.Entry{
		PlayerID:       playerID,
		GameDate:       date,
		NetProfit:      net,
		RunningBalance: LatestBalance(history).Add(net),
	}

	latest := latestEntry(history)
	backdated := latest != nil && !date.After(latest.GameDate)
	if backdated {
		// Provisional until the recompute below.
		entry.RunningBalance = net
	}
	if err := s.repo.Insert(ctx, db, entry); err != nil {
		return nil, err
	}
	if !backdated {
		return entry, nil
	}

	s.logger.InfoContext(ctx, "Backdated entry, recomputing history",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("player_id", playerID),
		attr.String("game_date", date.String()),
	)
	history = append(history, *entry)
	if err := s.repo.UpdateAmounts(ctx, db, Recompute(history)); err != nil {
		return nil, err
	}
	for i := range history {
		if history[i].ID == entry.ID {
			return &history[i], nil
		}
	}
	return entry, nil
}

func (s *LedgerService) EditEntry(ctx context.Context, entryID int64, net decimal.Decimal) (*EntryEdit, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "EditEntry", idString(entryID), func(ctx context.Context) (operation.Result[*EntryEdit], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*EntryEdit], error) {
			return s.editEntryLogic(ctx, db, entryID, net)
		})
	})
	edit, err := operation.Unwrap(result, err, "EditEntry")
	if err != nil {
		return nil, err
	}

	eventbus.PublishBestEffort(ctx, s.eventBus, s.logger,
		eventbus.FormatScopedTopic(ledgerevents.EntryEditedV1, idString(edit.Entry.PlayerID)),
		ledgerevents.EntryEditedPayloadV1{
			EntryID:  edit.Entry.ID,
			PlayerID: edit.Entry.PlayerID,
			GameDate: edit.Entry.GameDate,
			OldNet:   edit.OldNet,
			NewNet:   edit.Entry.NetProfit,
			Balance:  edit.CurrentBalance,
		})
	return edit, nil
}

func (s *LedgerService) editEntryLogic(ctx context.Context, db bun.IDB, entryID int64, net decimal.Decimal) (operation.Result[*EntryEdit], error) {
	target, err := s.repo.GetByID(ctx, db, entryID)
	if err != nil {
		if errors.Is(err, ledgerdb.ErrNotFound) {
			return operation.Failure[*EntryEdit](ledgererr.New(ledgererr.CodeEntryNotFound, "entry %d not found", entryID)), nil
		}
		return operation.Result[*EntryEdit]{}, err
	}

	entries, err := s.repo.ListByPlayer(ctx, db, target.PlayerID)
	if err != nil {
		return operation.Result[*EntryEdit]{}, err
	}

	edit := &EntryEdit{OldNet: target.NetProfit}
	net = sharedtypes.RoundCents(net)
	for i := range entries {
		if entries[i].ID == entryID {
			entries[i].NetProfit = net
		}
	}

	changed := Recompute(entries)
	// The edited row must be written even when its balance is unchanged.
	if !containsEntry(changed, entryID) {
		for _, e := range entries {
			if e.ID == entryID {
				changed = append(changed, e)
			}
		}
	}
	if err := s.repo.UpdateAmounts(ctx, db, changed); err != nil {
		return operation.Result[*EntryEdit]{}, err
	}

	for _, e := range entries {
		if e.ID == entryID {
			edit.Entry = e
		}
	}
	edit.CurrentBalance = LatestBalance(entries)
	return operation.Success(edit), nil
}

func containsEntry(entries []ledgerdb.Entry, entryID int64) bool {
	for _, e := range entries {
		if e.ID == entryID {
			return true
		}
	}
	return false
}

func (s *LedgerService) CurrentBalance(ctx context.Context, playerID int64) (decimal.Decimal, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "CurrentBalance", idString(playerID), func(ctx context.Context) (operation.Result[decimal.Decimal], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[decimal.Decimal], error) {
			entries, err := s.repo.ListByPlayer(ctx, db, playerID)
			if err != nil {
				return operation.Result[decimal.Decimal]{}, err
			}
			return operation.Success(LatestBalance(entries)), nil
		})
	})
	return operation.Unwrap(result, err, "CurrentBalance")
}

// -----------------------------------------------------------------------------
// Balance reads for settlement
// -----------------------------------------------------------------------------

// PlayerEntries returns a player's entries in date order.
func (s *LedgerService) PlayerEntries(ctx context.Context, db bun.IDB, playerID int64) ([]ledgerdb.Entry, error) {
	return s.repo.ListByPlayer(ctx, db, playerID)
}

// PlayerBalances returns the current balance and latest game of every player
// that has at least one entry.
func (s *LedgerService) PlayerBalances(ctx context.Context, db bun.IDB) (map[int64]PlayerBalance, error) {
	entries, err := s.repo.ListAll(ctx, db)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64][]ledgerdb.Entry)
	for _, e := range entries {
		byPlayer[e.PlayerID] = append(byPlayer[e.PlayerID], e)
	}

	balances := make(map[int64]PlayerBalance, len(byPlayer))
	for playerID, list := range byPlayer {
		latest := latestEntry(list)
		date := latest.GameDate
		balances[playerID] = PlayerBalance{
			PlayerID:   playerID,
			Balance:    latest.RunningBalance,
			LatestGame: &date,
		}
	}
	return balances, nil
}

// -----------------------------------------------------------------------------
// Clearing
// -----------------------------------------------------------------------------

func (s *LedgerService) ClearLedger(ctx context.Context, playerID int64) (*ledgerdb.History, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "ClearLedger", idString(playerID), func(ctx context.Context) (operation.Result[*ledgerdb.History], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*ledgerdb.History], error) {
			return s.clearLedgerLogic(ctx, db, playerID)
		})
	})
	history, err := operation.Unwrap(result, err, "ClearLedger")
	if err != nil {
		return nil, err
	}

	eventbus.PublishBestEffort(ctx, s.eventBus, s.logger, ledgerevents.PlayerClearedV1, ledgerevents.PlayerClearedPayloadV1{
		PlayerID:     playerID,
		PlayerName:   history.PlayerName,
		FinalBalance: history.FinalBalance,
		ClearedDate:  history.ClearedDate,
	})
	return history, nil
}

func (s *LedgerService) clearLedgerLogic(ctx context.Context, db bun.IDB, playerID int64) (operation.Result[*ledgerdb.History], error) {
	player, err := s.players.GetByID(ctx, db, playerID)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return operation.Failure[*ledgerdb.History](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)), nil
		}
		return operation.Result[*ledgerdb.History]{}, err
	}

	entries, err := s.repo.ListByPlayer(ctx, db, playerID)
	if err != nil {
		return operation.Result[*ledgerdb.History]{}, err
	}

	history := &ledgerdb.History{
		PlayerName:   player.Name,
		FinalBalance: LatestBalance(entries),
		ClearedDate:  sharedtypes.GameDateOf(s.now().UTC()),
	}
	if err := s.repo.InsertHistory(ctx, db, history); err != nil {
		return operation.Result[*ledgerdb.History]{}, err
	}

	payments, err := s.payments.DeleteByPlayer(ctx, db, playerID)
	if err != nil {
		return operation.Result[*ledgerdb.History]{}, err
	}
	removed, err := s.repo.DeleteByPlayer(ctx, db, playerID)
	if err != nil {
		return operation.Result[*ledgerdb.History]{}, err
	}
	if err := s.players.Delete(ctx, db, playerID); err != nil {
		return operation.Result[*ledgerdb.History]{}, fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}

	s.logger.InfoContext(ctx, "Ledger cleared",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("player_id", playerID),
		attr.Amount("final_balance", history.FinalBalance),
		attr.Int64("entries_removed", removed),
		attr.Int64("payments_removed", payments),
	)
	return operation.Success(history), nil
}

func (s *LedgerService) WipeAll(ctx context.Context) (*WipeResult, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "WipeAll", "all", func(ctx context.Context) (operation.Result[*WipeResult], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*WipeResult], error) {
			var (
				out WipeResult
				err error
			)
			if out.Payments, err = s.payments.DeleteAll(ctx, db); err != nil {
				return operation.Result[*WipeResult]{}, err
			}
			if out.Entries, err = s.repo.DeleteAll(ctx, db); err != nil {
				return operation.Result[*WipeResult]{}, err
			}
			if out.Players, err = s.players.DeleteAll(ctx, db); err != nil {
				return operation.Result[*WipeResult]{}, err
			}
			return operation.Success(&out), nil
		})
	})
	return operation.Unwrap(result, err, "WipeAll")
}

// -----------------------------------------------------------------------------
// Reports
// -----------------------------------------------------------------------------

func (s *LedgerService) GameDates(ctx context.Context) ([]MonthGroup, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "GameDates", "all", func(ctx context.Context) (operation.Result[[]MonthGroup], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[[]MonthGroup], error) {
			dates, err := s.repo.DistinctDates(ctx, db)
			if err != nil {
				return operation.Result[[]MonthGroup]{}, err
			}
			return operation.Success(GroupByMonth(dates)), nil
		})
	})
	return operation.Unwrap(result, err, "GameDates")
}

// GroupByMonth buckets dates by calendar month, newest month and date first.
func GroupByMonth(dates []sharedtypes.GameDate) []MonthGroup {
	sorted := append([]sharedtypes.GameDate(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	groups := []MonthGroup{}
	for _, d := range sorted {
		n := len(groups)
		if n == 0 || groups[n-1].Year != d.Year() || groups[n-1].Month != d.Month() {
			groups = append(groups, MonthGroup{
				Year:  d.Year(),
				Month: d.Month(),
				Label: d.Time().Format("January 2006"),
			})
			n++
		}
		groups[n-1].Dates = append(groups[n-1].Dates, d)
	}
	return groups
}

func (s *LedgerService) GameDetail(ctx context.Context, date sharedtypes.GameDate) (*GameDetail, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "GameDetail", date.String(), func(ctx context.Context) (operation.Result[*GameDetail], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*GameDetail], error) {
			entries, err := s.repo.ListByDate(ctx, db, date)
			if err != nil {
				return operation.Result[*GameDetail]{}, err
			}
			if len(entries) == 0 {
				return operation.Failure[*GameDetail](ledgererr.New(ledgererr.CodeGameNotFound, "no game on %s", date)), nil
			}

			detail := &GameDetail{Date: date, Total: decimal.Zero}
			for _, e := range entries {
				name := ""
				if e.Player != nil {
					name = e.Player.Name
				}
				detail.Results = append(detail.Results, GameResult{
					EntryID:        e.ID,
					PlayerID:       e.PlayerID,
					PlayerName:     name,
					NetProfit:      e.NetProfit,
					RunningBalance: e.RunningBalance,
				})
				detail.Total = detail.Total.Add(e.NetProfit)
			}
			sort.SliceStable(detail.Results, func(i, j int) bool {
				return detail.Results[i].NetProfit.GreaterThan(detail.Results[j].NetProfit)
			})
			return operation.Success(detail), nil
		})
	})
	return operation.Unwrap(result, err, "GameDetail")
}

func (s *LedgerService) History(ctx context.Context) ([]ledgerdb.History, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "History", "all", func(ctx context.Context) (operation.Result[[]ledgerdb.History], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[[]ledgerdb.History], error) {
			rows, err := s.repo.ListHistory(ctx, db)
			if err != nil {
				return operation.Result[[]ledgerdb.History]{}, err
			}
			if rows == nil {
				rows = []ledgerdb.History{}
			}
			return operation.Success(rows), nil
		})
	})
	return operation.Unwrap(result, err, "History")
}

func (s *LedgerService) BalanceChart(ctx context.Context, playerID int64) ([]byte, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "BalanceChart", idString(playerID), func(ctx context.Context) (operation.Result[[]byte], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[[]byte], error) {
			player, err := s.players.GetByID(ctx, db, playerID)
			if err != nil {
				if errors.Is(err, playerdb.ErrNotFound) {
					return operation.Failure[[]byte](ledgererr.New(ledgererr.CodePlayerNotFound, "player %d not found", playerID)), nil
				}
				return operation.Result[[]byte]{}, err
			}
			entries, err := s.repo.ListByPlayer(ctx, db, playerID)
			if err != nil {
				return operation.Result[[]byte]{}, err
			}
			png, err := GenerateBalanceChart(player.Name, entries, DefaultPalette)
			if err != nil {
				return operation.Result[[]byte]{}, fmt.Errorf("failed to render chart: %w", err)
			}
			return operation.Success(png), nil
		})
	})
	return operation.Unwrap(result, err, "BalanceChart")
}
