package settlementservice

import (
	"context"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Service defines the settlement operations.
type Service interface {
	// RecordPayment writes a payment, or both sides of a transfer, atomically.
	RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error)

	// Outstanding returns what a player still owes (negative) or is owed.
	Outstanding(ctx context.Context, playerID int64) (*Outstanding, error)

	LedgerSnapshot(ctx context.Context) ([]LedgerRow, error)
	PlayerSnapshot(ctx context.Context, playerID int64) (*PlayerSnapshot, error)
	Export(ctx context.Context, format ExportFormat) (*ExportFile, error)
}

// BalanceReader reads ledger balances on behalf of settlement.
type BalanceReader interface {
	PlayerBalances(ctx context.Context, db bun.IDB) (map[int64]ledgerservice.PlayerBalance, error)
	PlayerEntries(ctx context.Context, db bun.IDB, playerID int64) ([]ledgerdb.Entry, error)
}

// PaymentRequest describes a payment to record. A non-nil TransferTo turns
// it into a transfer between two players.
type PaymentRequest struct {
	PlayerID   int64                `json:"player_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Date       sharedtypes.GameDate `json:"payment_date"`
	Method     string               `json:"payment_method"`
	TransferTo *int64               `json:"transfer_to,omitempty"`
}

// PaymentReceipt holds the rows written for a payment.
type PaymentReceipt struct {
	Payment settlementdb.Payment  `json:"payment"`
	Mirror  *settlementdb.Payment `json:"mirror,omitempty"`
}

// Outstanding is a player's settlement position.
type Outstanding struct {
	PlayerID       int64           `json:"player_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// LedgerRow is one player's line in the ledger snapshot.
type LedgerRow struct {
	Player         playerdb.Player       `json:"player"`
	CurrentBalance decimal.Decimal       `json:"current_balance"`
	TotalPayments  decimal.Decimal       `json:"total_payments"`
	Remaining      decimal.Decimal       `json:"remaining"`
	LatestGame     *sharedtypes.GameDate `json:"latest_game,omitempty"`
}

// PaymentView is a payment with its transfer counterparty's name, when the
// counterparty still exists.
type PaymentView struct {
	settlementdb.Payment
	CounterpartyName *string `json:"counterparty_name,omitempty"`
}

// PlayerSnapshot is a player's full ledger and payment history, newest first.
type PlayerSnapshot struct {
	Player         playerdb.Player  `json:"player"`
	Entries        []ledgerdb.Entry `json:"entries"`
	Payments       []PaymentView    `json:"payments"`
	TotalNetProfit decimal.Decimal  `json:"total_net_profit"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	TotalPayments  decimal.Decimal  `json:"total_payments"`
	Remaining      decimal.Decimal  `json:"remaining"`
}

// ExportFormat selects the ledger export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportFile is a rendered export.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
