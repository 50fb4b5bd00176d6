package parsers

import (
	"path/filepath"
	"strings"

	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
)

// Row is one line of a session results file.
type Row struct {
	Line     int
	Name     string
	NetCents int64
}

// Parser defines the interface for session result parsers
type Parser interface {
	Parse(data []byte) ([]Row, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory creates the appropriate parser based on file extension
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, ledgererr.Validation("unsupported file type %q: upload a .csv or .xlsx file", ext)
	}
}
