package settlementservice

import (
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
)

// Remaining is the balance left to settle. A positive payment is money the
// player paid toward a debt, so payments are added to the ledger balance.
// Amounts under a cent snap to zero.
func Remaining(balance, totalPayments decimal.Decimal) decimal.Decimal {
	return sharedtypes.SnapZero(balance.Add(totalPayments))
}

// TotalPayments sums payment amounts.
func TotalPayments(payments []settlementdb.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
