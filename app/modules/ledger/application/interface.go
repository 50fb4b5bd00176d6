package ledgerservice

import (
	"context"
	"time"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Service defines the ledger operations.
type Service interface {
	// AppendEntry records a player's result for a date in its own transaction.
	AppendEntry(ctx context.Context, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error)

	// EditEntry replaces an entry's net profit and recomputes the player's
	// whole history in date order.
	EditEntry(ctx context.Context, entryID int64, net decimal.Decimal) (*EntryEdit, error)

	// CurrentBalance returns the balance after the player's latest game.
	CurrentBalance(ctx context.Context, playerID int64) (decimal.Decimal, error)

	// ClearLedger archives a player's balance and removes the player with
	// their entries and payments.
	ClearLedger(ctx context.Context, playerID int64) (*ledgerdb.History, error)

	GameDates(ctx context.Context) ([]MonthGroup, error)
	GameDetail(ctx context.Context, date sharedtypes.GameDate) (*GameDetail, error)
	History(ctx context.Context) ([]ledgerdb.History, error)
	BalanceChart(ctx context.Context, playerID int64) ([]byte, error)

	// WipeAll deletes every payment, entry and player. History is kept.
	WipeAll(ctx context.Context) (*WipeResult, error)
}

// Appender appends entries inside a caller-owned transaction.
type Appender interface {
	AppendEntryTx(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error)
}

// PaymentStore is the payment persistence the ledger removes rows from.
type PaymentStore interface {
	DeleteByPlayer(ctx context.Context, db bun.IDB, playerID int64) (int64, error)
	DeleteAll(ctx context.Context, db bun.IDB) (int64, error)
}

// EntryEdit describes an applied edit.
type EntryEdit struct {
	Entry          ledgerdb.Entry  `json:"entry"`
	OldNet         decimal.Decimal `json:"old_net"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// MonthGroup is one calendar month of game dates, newest first.
type MonthGroup struct {
	Year  int                    `json:"year"`
	Month time.Month             `json:"month"`
	Label string                 `json:"label"`
	Dates []sharedtypes.GameDate `json:"dates"`
}

// GameResult is one player's line in a game.
type GameResult struct {
	EntryID        int64           `json:"entry_id"`
	PlayerID       int64           `json:"player_id"`
	PlayerName     string          `json:"player_name"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// GameDetail lists every result of a game date, biggest winner first.
type GameDetail struct {
	Date    sharedtypes.GameDate `json:"date"`
	Results []GameResult         `json:"results"`
	Total   decimal.Decimal      `json:"total"`
}

// PlayerBalance summarizes a player's ledger.
type PlayerBalance struct {
	PlayerID   int64                 `json:"player_id"`
	Balance    decimal.Decimal       `json:"current_balance"`
	LatestGame *sharedtypes.GameDate `json:"latest_game,omitempty"`
}

// WipeResult counts the rows removed by WipeAll.
type WipeResult struct {
	Payments int64 `json:"payments"`
	Entries  int64 `json:"entries"`
	Players  int64 `json:"players"`
}
