package playerdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is a ledger participant. Names are unique case-insensitively.
type Player struct {
	bun.BaseModel          `bun:"table:players,alias:p"`
	ID                     int64     `bun:"id,pk,autoincrement" json:"id"`
	Name                   string    `bun:"name,notnull,type:varchar(100)" json:"name"`
	PreferredPaymentMethod *string   `bun:"preferred_payment_method,type:varchar(50)" json:"preferred_payment_method,omitempty"`
	PaymentID              *string   `bun:"payment_id,type:varchar(100)" json:"payment_id,omitempty"`
	CreatedAt              time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
