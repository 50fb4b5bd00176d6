// Package backup writes and restores JSON snapshots of every ledger table.
// Rows reference players by name so a snapshot can be restored into a
// database whose IDs differ.
package backup

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
)

const (
	playersPrefix  = "players_"
	entriesPrefix  = "ledger_entries_"
	paymentsPrefix = "payments_"
	historyPrefix  = "history_"
	summaryPrefix  = "export_summary_"

	timestampLayout = "20060102_150405"
)

type PlayerRecord struct {
	Name                   string  `json:"name"`
	PreferredPaymentMethod *string `json:"preferred_payment_method"`
	PaymentID              *string `json:"payment_id"`
	CreatedAt              string  `json:"created_at,omitempty"`
}

type EntryRecord struct {
	PlayerName     string               `json:"player_name"`
	GameDate       sharedtypes.GameDate `json:"game_date"`
	NetProfit      decimal.Decimal      `json:"net_profit"`
	RunningBalance decimal.Decimal      `json:"running_balance"`
	CreatedAt      string               `json:"created_at,omitempty"`
}

type PaymentRecord struct {
	PlayerName         string               `json:"player_name"`
	Amount             decimal.Decimal      `json:"amount"`
	PaymentDate        sharedtypes.GameDate `json:"payment_date"`
	PaymentMethod      *string              `json:"payment_method"`
	TransferPlayerName *string              `json:"transfer_player_name,omitempty"`
	CreatedAt          string               `json:"created_at,omitempty"`
}

type HistoryRecord struct {
	PlayerName   string               `json:"player_name"`
	FinalBalance decimal.Decimal      `json:"final_balance"`
	ClearedDate  sharedtypes.GameDate `json:"cleared_date"`
	CreatedAt    string               `json:"created_at,omitempty"`
}

// Summary is written next to the data files of every export.
type Summary struct {
	ExportDate         time.Time `json:"export_date"`
	PlayersCount       int       `json:"players_count"`
	LedgerEntriesCount int       `json:"ledger_entries_count"`
	PaymentsCount      int       `json:"payments_count"`
	HistoryCount       int       `json:"history_count"`
	Files              []string  `json:"files"`
}

// ImportResult counts what a restore created and skipped.
type ImportResult struct {
	PlayersCreated  int `json:"players_created"`
	PlayersSkipped  int `json:"players_skipped"`
	EntriesCreated  int `json:"entries_created"`
	EntriesSkipped  int `json:"entries_skipped"`
	PaymentsCreated int `json:"payments_created"`
	PaymentsSkipped int `json:"payments_skipped"`
	HistoryCreated  int `json:"history_created"`
	HistorySkipped  int `json:"history_skipped"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
