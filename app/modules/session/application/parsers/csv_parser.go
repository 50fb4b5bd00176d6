package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
)

// CSVParser parses CSV session files
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses CSV data into rows
func (p *CSVParser) Parse(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ledgererr.Validation("failed to read CSV: %v", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}

	return rowsFromRecords(records)
}
