package settlementdb

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Payment is money a player paid (positive) or received (negative) toward
// settling their balance. A transfer is two reciprocal rows.
type Payment struct {
	bun.BaseModel    `bun:"table:payments,alias:pay"`
	ID               int64                `bun:"id,pk,autoincrement" json:"id"`
	PlayerID         int64                `bun:"player_id,notnull" json:"player_id"`
	Amount           decimal.Decimal      `bun:"amount,notnull,type:numeric(14,2)" json:"amount"`
	PaymentDate      sharedtypes.GameDate `bun:"payment_date,notnull,type:date" json:"payment_date"`
	PaymentMethod    *string              `bun:"payment_method,type:varchar(50)" json:"payment_method,omitempty"`
	TransferPlayerID *int64               `bun:"transfer_player_id" json:"transfer_player_id,omitempty"`
	CreatedAt        time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// IsTransfer reports whether the payment is one side of a transfer.
func (p Payment) IsTransfer() bool {
	return p.TransferPlayerID != nil
}
