package settlementservice

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/Black-And-White-Club/poker-ledger/internal/operation"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Ledger"

// ExportHeader is the column order of ledger exports.
var ExportHeader = []string{
	"Player Name",
	"Preferred Payment Method",
	"Payment ID",
	"Current Balance",
	"Total Payments",
	"Remaining Payment",
	"Last Game",
}

// ParseExportFormat validates a requested export format. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", ledgererr.Validation("unsupported export format %q", s)
	}
}

func (s *SettlementService) Export(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "Export", string(format), func(ctx context.Context) (operation.Result[*ExportFile], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*ExportFile], error) {
			rows, err := s.ledgerRows(ctx, db)
			if err != nil {
				return operation.Result[*ExportFile]{}, err
			}
			switch format {
			case ExportCSV:
				data, err := renderCSV(rows)
				if err != nil {
					return operation.Result[*ExportFile]{}, err
				}
				return operation.Success(&ExportFile{FileName: "poker_ledger.csv", ContentType: "text/csv", Data: data}), nil
			case ExportXLSX:
				data, err := renderXLSX(rows)
				if err != nil {
					return operation.Result[*ExportFile]{}, err
				}
				return operation.Success(&ExportFile{
					FileName:    "poker_ledger.xlsx",
					ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
					Data:        data,
				}), nil
			default:
				return operation.Failure[*ExportFile](ledgererr.Validation("unsupported export format %q", format)), nil
			}
		})
	})
	return operation.Unwrap(result, err, "Export")
}

// exportRecord renders one row as text cells.
func exportRecord(row LedgerRow) []string {
	method, paymentID, lastGame := "", "", ""
	if row.Player.PreferredPaymentMethod != nil {
		method = *row.Player.PreferredPaymentMethod
	}
	if row.Player.PaymentID != nil {
		paymentID = *row.Player.PaymentID
	}
	if row.LatestGame != nil {
		lastGame = row.LatestGame.String()
	}
	return []string{
		row.Player.Name,
		method,
		paymentID,
		row.CurrentBalance.StringFixed(2),
		row.TotalPayments.StringFixed(2),
		row.Remaining.StringFixed(2),
		lastGame,
	}
}

func renderCSV(rows []LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(exportRecord(row)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows []LedgerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, row := range rows {
		record := exportRecord(row)
		cells := []any{
			record[0],
			record[1],
			record[2],
			row.CurrentBalance.InexactFloat64(),
			row.TotalPayments.InexactFloat64(),
			row.Remaining.InexactFloat64(),
			record[6],
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
