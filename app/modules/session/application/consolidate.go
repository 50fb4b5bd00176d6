package sessionservice

import (
	"slices"
	"strings"

	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	"github.com/shopspring/decimal"
)

// consolidated is a group of rows sharing a normalized name.
type consolidated struct {
	name      string
	net       decimal.Decimal
	spellings []string
	rows      int
}

// consolidate groups rows by normalized name, in first-seen order. The first
// spelling is kept as the display name; every distinct trimmed spelling is
// recorded.
func consolidate(rows []ImportRow) ([]consolidated, []ConsolidationNote) {
	index := make(map[string]int, len(rows))
	var groups []consolidated

	for _, row := range rows {
		key := playerservice.NormalizeName(row.Name)
		spelling := strings.TrimSpace(row.Name)

		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, consolidated{name: spelling, net: row.Net, spellings: []string{spelling}, rows: 1})
			continue
		}
		g := &groups[i]
		g.net = g.net.Add(row.Net)
		g.rows++
		if !slices.Contains(g.spellings, spelling) {
			g.spellings = append(g.spellings, spelling)
		}
	}

	var notes []ConsolidationNote
	for _, g := range groups {
		if g.rows > 1 {
			notes = append(notes, ConsolidationNote{Name: g.name, Spellings: g.spellings, Rows: g.rows, Net: g.net})
		}
	}
	return groups, notes
}
