package parsers

import (
	"bytes"
	"strings"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/xuri/excelize/v2"
)

// XLSXParser parses XLSX session files
type XLSXParser struct{}

// NewXLSXParser creates a new XLSX parser
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse reads the first sheet of an XLSX workbook into rows
func (p *XLSXParser) Parse(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, ledgererr.Validation("failed to open XLSX file: %v (if this is a CSV file, give it a .csv extension)", err)
		}
		return nil, ledgererr.Validation("failed to open XLSX file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ledgererr.Validation("XLSX file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ledgererr.Validation("failed to read sheet %q: %v", sheets[0], err)
	}

	// GetRows keeps empty rows in place, so the index is the sheet row.
	records := make([]record, len(rows))
	for i, fields := range rows {
		records[i] = record{line: i + 1, fields: fields}
	}
	return rowsFromRecords(records)
}
