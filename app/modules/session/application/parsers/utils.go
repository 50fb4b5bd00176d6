package parsers

import (
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/shopspring/decimal"
)

// maxCents is the largest magnitude a numeric(14,2) amount can hold.
var maxCents = decimal.New(1, 14).Sub(decimal.NewFromInt(1))

var (
	nameColumns = []string{"player_nickname", "nickname", "player", "name", "player_name"}
	netColumns  = []string{"net", "net_cents", "net_profit"}
)

// findColumn searches for a column by multiple possible names (case-insensitive)
// Removes spaces, underscores, and hyphens for normalization
func findColumn(header []string, possibleNames []string) int {
	for _, name := range possibleNames {
		want := normalizeHeader(name)
		for i, col := range header {
			if normalizeHeader(col) == want {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// record is one parsed line of a session file. Line is 1-based and counts
// the header.
type record struct {
	line   int
	fields []string
}

// rowsFromRecords maps a header record plus data records onto Rows. Blank
// records are skipped.
func rowsFromRecords(records []record) ([]Row, error) {
	if len(records) == 0 {
		return nil, ledgererr.Validation("file is empty")
	}

	header := records[0].fields
	nameCol := findColumn(header, nameColumns)
	netCol := findColumn(header, netColumns)
	if nameCol < 0 || netCol < 0 {
		return nil, ledgererr.Validation("file must contain player_nickname and net columns")
	}

	var rows []Row
	for _, rec := range records[1:] {
		if isBlank(rec.fields) {
			continue
		}

		name := cell(rec.fields, nameCol)
		if name == "" {
			return nil, ledgererr.Validation("row %d: player name is empty", rec.line)
		}
		cents, err := parseCents(cell(rec.fields, netCol))
		if err != nil {
			return nil, ledgererr.Validation("row %d: %v", rec.line, err)
		}
		rows = append(rows, Row{Line: rec.line, Name: name, NetCents: cents})
	}

	if len(rows) == 0 {
		return nil, ledgererr.Validation("file has no player rows")
	}
	return rows, nil
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseCents accepts integral values, including spreadsheet renderings such
// as "1250.0".
func parseCents(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("net must be a whole number of cents, got %q", raw)
	}
	if d.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("net %q is out of range", raw)
	}
	return d.IntPart(), nil
}
