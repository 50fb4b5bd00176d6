package playerservice

import (
	"context"

	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
)

// Service defines the player operations.
type Service interface {
	// ListPlayers returns every player sorted by name.
	ListPlayers(ctx context.Context) ([]playerdb.Player, error)

	// GetPlayer returns a player or a PlayerNotFound conflict.
	GetPlayer(ctx context.Context, id int64) (*playerdb.Player, error)

	// Resolve finds the player whose normalized name equals name.
	Resolve(ctx context.Context, name string) (*playerdb.Player, bool, error)

	// UpdatePaymentInfo sets the optional payment fields. Empty strings clear them.
	UpdatePaymentInfo(ctx context.Context, id int64, method, paymentID string) (*playerdb.Player, error)
}
