package sharedtypes

import "github.com/shopspring/decimal"

// Cent is the smallest amount the ledger distinguishes from zero.
var Cent = decimal.New(1, -2)

// RoundCents rounds an amount to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SnapZero returns exactly zero for amounts smaller than a cent.
func SnapZero(d decimal.Decimal) decimal.Decimal {
	if d.Abs().LessThan(Cent) {
		return decimal.Zero
	}
	return d
}

// CentsToAmount converts integer cents to a dollar amount.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
