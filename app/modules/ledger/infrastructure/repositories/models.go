package ledgerdb

import (
	"time"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Entry is one player's result for one game date.
type Entry struct {
	bun.BaseModel  `bun:"table:ledger_entries,alias:le"`
	ID             int64                `bun:"id,pk,autoincrement" json:"id"`
	PlayerID       int64                `bun:"player_id,notnull" json:"player_id"`
	GameDate       sharedtypes.GameDate `bun:"game_date,notnull,type:date" json:"game_date"`
	NetProfit      decimal.Decimal      `bun:"net_profit,notnull,type:numeric(14,2)" json:"net_profit"`
	RunningBalance decimal.Decimal      `bun:"running_balance,notnull,type:numeric(14,2)" json:"running_balance"`
	CreatedAt      time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Player *playerdb.Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}

// History is the archived balance of a cleared player.
type History struct {
	bun.BaseModel `bun:"table:ledger_history,alias:lh"`
	ID            int64                `bun:"id,pk,autoincrement" json:"id"`
	PlayerName    string               `bun:"player_name,notnull,type:varchar(100)" json:"player_name"`
	FinalBalance  decimal.Decimal      `bun:"final_balance,notnull,type:numeric(14,2)" json:"final_balance"`
	ClearedDate   sharedtypes.GameDate `bun:"cleared_date,notnull,type:date" json:"cleared_date"`
	CreatedAt     time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
