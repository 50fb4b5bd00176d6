// Package ledgerevents defines the topics and payloads of ledger domain events.
package ledgerevents

import (
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
)

const (
	// SessionImportedV1 is published after a confirmed import commits.
	SessionImportedV1 = "ledger.session.imported.v1"
	// EntryEditedV1 is published, scoped by player ID, after an entry edit.
	EntryEditedV1 = "ledger.entry.edited.v1"
	// PlayerClearedV1 is published after a player's ledger is cleared.
	PlayerClearedV1 = "ledger.player.cleared.v1"
	// PaymentRecordedV1 is published, scoped by player ID, after a payment.
	PaymentRecordedV1 = "settlement.payment.recorded.v1"
)

type SessionImportedPayloadV1 struct {
	ImportID       string               `json:"import_id"`
	GameDate       sharedtypes.GameDate `json:"game_date"`
	EntriesCreated int                  `json:"entries_created"`
	PlayersCreated int                  `json:"players_created"`
}

type EntryEditedPayloadV1 struct {
	EntryID  int64                `json:"entry_id"`
	PlayerID int64                `json:"player_id"`
	GameDate sharedtypes.GameDate `json:"game_date"`
	OldNet   decimal.Decimal      `json:"old_net"`
	NewNet   decimal.Decimal      `json:"new_net"`
	Balance  decimal.Decimal      `json:"current_balance"`
}

type PlayerClearedPayloadV1 struct {
	PlayerID     int64                `json:"player_id"`
	PlayerName   string               `json:"player_name"`
	FinalBalance decimal.Decimal      `json:"final_balance"`
	ClearedDate  sharedtypes.GameDate `json:"cleared_date"`
}

type PaymentRecordedPayloadV1 struct {
	PaymentID        int64                `json:"payment_id"`
	PlayerID         int64                `json:"player_id"`
	Amount           decimal.Decimal      `json:"amount"`
	PaymentDate      sharedtypes.GameDate `json:"payment_date"`
	Method           *string              `json:"payment_method,omitempty"`
	TransferPlayerID *int64               `json:"transfer_player_id,omitempty"`
	MirrorPaymentID  *int64               `json:"mirror_payment_id,omitempty"`
}
