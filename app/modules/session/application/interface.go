package sessionservice

import (
	"context"
	"strings"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Service defines the two-phase session import.
type Service interface {
	// StageImport consolidates and classifies rows for date without writing.
	StageImport(ctx context.Context, date sharedtypes.GameDate, rows []ImportRow) (*StagedImport, error)

	// ImportFile parses an uploaded results file and stages it.
	ImportFile(ctx context.Context, dateInput, fileName string, data []byte) (*StagedImport, error)

	// ConfirmImport resolves every row and appends one entry per player in a
	// single transaction.
	ConfirmImport(ctx context.Context, req ConfirmRequest) (*ImportReceipt, error)

	// ParseGameDate accepts YYYY-MM-DD or a natural-language date.
	ParseGameDate(input string) (sharedtypes.GameDate, error)
}

// EntryAppender appends a ledger entry inside a caller-owned transaction.
type EntryAppender interface {
	AppendEntryTx(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error)
}

// DateChecker reports whether a date already has ledger entries.
type DateChecker interface {
	ExistsForDate(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) (bool, error)
}

// ImportRow is one raw (name, net) pair.
type ImportRow struct {
	Name string          `json:"name"`
	Net  decimal.Decimal `json:"net"`
}

// StagedRow is a consolidated row awaiting confirmation.
type StagedRow struct {
	Name        string                     `json:"name"`
	Net         decimal.Decimal            `json:"net"`
	Spellings   []string                   `json:"spellings"`
	Player      *playerdb.Player           `json:"player,omitempty"`
	Suggestions []playerservice.Suggestion `json:"suggestions,omitempty"`
}

// ConsolidationNote reports rows that were merged as one person.
type ConsolidationNote struct {
	Name      string          `json:"name"`
	Spellings []string        `json:"spellings"`
	Rows      int             `json:"rows"`
	Net       decimal.Decimal `json:"net"`
}

// StagedImport is the confirmation payload. It carries everything the caller
// needs to build a ConfirmRequest; nothing is held server-side.
type StagedImport struct {
	ImportID string               `json:"import_id"`
	GameDate sharedtypes.GameDate `json:"game_date"`
	New      []StagedRow          `json:"new"`
	Existing []StagedRow          `json:"existing"`
	Notes    []ConsolidationNote  `json:"consolidation_notes"`
	Players  []playerdb.Player    `json:"players"`
}

// Action is the caller's decision for one row.
type Action string

const (
	ActionCreate Action = "create"
	ActionMatch  Action = "match"
)

// ResolvedRow is one confirmed row. Name is the player to create or match;
// SourceName is the spelling from the results file and defaults to Name.
// A match without PlayerID matches by name.
type ResolvedRow struct {
	Name       string          `json:"name"`
	SourceName string          `json:"source_name,omitempty"`
	Net        decimal.Decimal `json:"net"`
	Action     Action          `json:"action"`
	PlayerID   *int64          `json:"player_id,omitempty"`
}

func (r ResolvedRow) source() string {
	if s := strings.TrimSpace(r.SourceName); s != "" {
		return s
	}
	return strings.TrimSpace(r.Name)
}

// ConfirmRequest commits a staged import.
type ConfirmRequest struct {
	ImportID string               `json:"import_id"`
	GameDate sharedtypes.GameDate `json:"game_date"`
	Rows     []ResolvedRow        `json:"rows"`
}

// ImportReceipt summarizes a committed import.
type ImportReceipt struct {
	ImportID       string               `json:"import_id"`
	GameDate       sharedtypes.GameDate `json:"game_date"`
	Entries        []ledgerdb.Entry     `json:"entries"`
	PlayersCreated int                  `json:"players_created"`
	Renamed        []RenamedRow         `json:"renamed"`
}

// RenamedRow records a row whose file spelling differs from the player it
// was booked to.
type RenamedRow struct {
	SourceName string `json:"source_name"`
	PlayerID   int64  `json:"player_id"`
	Name       string `json:"name"`
}
