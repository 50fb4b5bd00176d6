package ledgerservice

import (
	"sort"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	"github.com/shopspring/decimal"
)

// SortByDate orders entries by game date, breaking ties by ID.
func SortByDate(entries []ledgerdb.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].GameDate.Compare(entries[j].GameDate); c != 0 {
			return c < 0
		}
		return entries[i].ID < entries[j].ID
	})
}

// Recompute sorts entries by date and rewrites every running balance as the
// prefix sum of net profit. It returns the entries whose balance changed.
func Recompute(entries []ledgerdb.Entry) []ledgerdb.Entry {
	SortByDate(entries)

	var changed []ledgerdb.Entry
	running := decimal.Zero
	for i := range entries {
		running = running.Add(entries[i].NetProfit)
		if !entries[i].RunningBalance.Equal(running) {
			entries[i].RunningBalance = running
			changed = append(changed, entries[i])
		}
	}
	return changed
}

// LatestBalance returns the running balance of the chronologically latest
// entry, or zero when there are none.
func LatestBalance(entries []ledgerdb.Entry) decimal.Decimal {
	latest := latestEntry(entries)
	if latest == nil {
		return decimal.Zero
	}
	return latest.RunningBalance
}

func latestEntry(entries []ledgerdb.Entry) *ledgerdb.Entry {
	var latest *ledgerdb.Entry
	for i := range entries {
		e := &entries[i]
		if latest == nil || e.GameDate.After(latest.GameDate) ||
			(e.GameDate.Equal(latest.GameDate) && e.ID > latest.ID) {
			latest = e
		}
	}
	return latest
}
