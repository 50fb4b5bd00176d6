package sessionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/app/modules/session/application/parsers"
	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/internal/operation"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	ledgerevents "github.com/Black-And-White-Club/poker-ledger/pkg/events/ledger"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const maxSuggestions = 3

// SessionService implements the Service interface.
type SessionService struct {
	players  playerdb.Repository
	entries  DateChecker
	appender EntryAppender
	parsers  parsers.ParserFactory
	eventBus eventbus.EventBus
	logger   *slog.Logger
	runner   *operation.Runner
	dates    *when.Parser
	now      func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	players playerdb.Repository,
	entries DateChecker,
	appender EntryAppender,
	factory parsers.ParserFactory,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	m metrics.ServiceMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SessionService {
	runner := operation.NewRunner("SessionService", logger, m, tracer, db)
	if eventBus == nil {
		eventBus = eventbus.NewNoop()
	}
	if factory == nil {
		factory = parsers.NewFactory()
	}
	return &SessionService{
		players:  players,
		entries:  entries,
		appender: appender,
		parsers:  factory,
		eventBus: eventBus,
		logger:   runner.Logger,
		runner:   runner,
		dates:    newDateParser(),
		now:      time.Now,
	}
}

// -----------------------------------------------------------------------------
// Stage
// -----------------------------------------------------------------------------

func (s *SessionService) ImportFile(ctx context.Context, dateInput, fileName string, data []byte) (*StagedImport, error) {
	date, err := s.ParseGameDate(dateInput)
	if err != nil {
		return nil, err
	}
	parser, err := s.parsers.GetParser(fileName)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	rows := make([]ImportRow, 0, len(parsed))
	for _, r := range parsed {
		rows = append(rows, ImportRow{Name: r.Name, Net: sharedtypes.CentsToAmount(r.NetCents)})
	}
	return s.StageImport(ctx, date, rows)
}

func (s *SessionService) StageImport(ctx context.Context, date sharedtypes.GameDate, rows []ImportRow) (*StagedImport, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "StageImport", date.String(), func(ctx context.Context) (operation.Result[*StagedImport], error) {
		return operation.Read(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*StagedImport], error) {
			return s.stageImportLogic(ctx, db, date, rows)
		})
	})
	return operation.Unwrap(result, err, "StageImport")
}

func (s *SessionService) stageImportLogic(ctx context.Context, db bun.IDB, date sharedtypes.GameDate, rows []ImportRow) (operation.Result[*StagedImport], error) {
	if date.IsZero() {
		return operation.Failure[*StagedImport](ledgererr.Validation("game date is required")), nil
	}
	if len(rows) == 0 {
		return operation.Failure[*StagedImport](ledgererr.Validation("no rows to import")), nil
	}
	for i, row := range rows {
		if playerservice.NormalizeName(row.Name) == "" {
			return operation.Failure[*StagedImport](ledgererr.Validation("row %d: player name is empty", i+1)), nil
		}
	}

	if err := s.checkDateFree(ctx, db, date); err != nil {
		return operation.FromError[*StagedImport](err)
	}

	existing, err := s.players.List(ctx, db)
	if err != nil {
		return operation.Result[*StagedImport]{}, fmt.Errorf("failed to list players: %w", err)
	}
	dir := playerservice.NewDirectory(existing)

	groups, notes := consolidate(rows)
	staged := &StagedImport{
		ImportID: uuid.NewString(),
		GameDate: date,
		New:      []StagedRow{},
		Existing: []StagedRow{},
		Notes:    notes,
		Players:  dir.Players(),
	}
	if staged.Notes == nil {
		staged.Notes = []ConsolidationNote{}
	}

	for _, g := range groups {
		row := StagedRow{Name: g.name, Net: sharedtypes.RoundCents(g.net), Spellings: g.spellings}
		if p, ok := dir.Resolve(g.name); ok {
			row.Player = p
			staged.Existing = append(staged.Existing, row)
			continue
		}
		row.Suggestions = dir.Suggest(g.name, maxSuggestions)
		staged.New = append(staged.New, row)
	}

	s.logger.InfoContext(ctx, "Import staged",
		attr.ExtractCorrelationID(ctx),
		attr.String("import_id", staged.ImportID),
		attr.String("game_date", date.String()),
		attr.Int("new", len(staged.New)),
		attr.Int("existing", len(staged.Existing)),
		attr.Int("consolidated", len(notes)),
	)
	return operation.Success(staged), nil
}

func (s *SessionService) checkDateFree(ctx context.Context, db bun.IDB, date sharedtypes.GameDate) error {
	exists, err := s.entries.ExistsForDate(ctx, db, date)
	if err != nil {
		return fmt.Errorf("failed to check game date: %w", err)
	}
	if exists {
		return ledgererr.New(ledgererr.CodeDateAlreadyImported, "entries already exist for %s", date)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Confirm
// -----------------------------------------------------------------------------

func (s *SessionService) ConfirmImport(ctx context.Context, req ConfirmRequest) (*ImportReceipt, error) {
	if req.ImportID == "" {
		req.ImportID = uuid.NewString()
	}

	result, err := operation.WithTelemetry(s.runner, ctx, "ConfirmImport", req.GameDate.String(), func(ctx context.Context) (operation.Result[*ImportReceipt], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (operation.Result[*ImportReceipt], error) {
			return s.confirmImportLogic(ctx, db, req)
		})
	})
	receipt, err := operation.Unwrap(result, err, "ConfirmImport")
	if err != nil {
		return nil, err
	}

	eventbus.PublishBestEffort(ctx, s.eventBus, s.logger, ledgerevents.SessionImportedV1, ledgerevents.SessionImportedPayloadV1{
		ImportID:       receipt.ImportID,
		GameDate:       receipt.GameDate,
		EntriesCreated: len(receipt.Entries),
		PlayersCreated: receipt.PlayersCreated,
	})
	return receipt, nil
}

func (s *SessionService) confirmImportLogic(ctx context.Context, db bun.IDB, req ConfirmRequest) (operation.Result[*ImportReceipt], error) {
	if req.GameDate.IsZero() {
		return operation.Failure[*ImportReceipt](ledgererr.Validation("game date is required")), nil
	}
	if len(req.Rows) == 0 {
		return operation.Failure[*ImportReceipt](ledgererr.Validation("no rows to confirm")), nil
	}
	if err := s.checkDateFree(ctx, db, req.GameDate); err != nil {
		return operation.FromError[*ImportReceipt](err)
	}

	existing, err := s.players.List(ctx, db)
	if err != nil {
		return operation.Result[*ImportReceipt]{}, fmt.Errorf("failed to list players: %w", err)
	}
	dir := playerservice.NewDirectory(existing)

	receipt := &ImportReceipt{ImportID: req.ImportID, GameDate: req.GameDate, Renamed: []RenamedRow{}}
	for i, row := range req.Rows {
		player, created, err := s.resolveRow(ctx, db, dir, i+1, row)
		if err != nil {
			return operation.FromError[*ImportReceipt](err)
		}
		if created {
			receipt.PlayersCreated++
		}

		entry, err := s.appender.AppendEntryTx(ctx, db, player.ID, req.GameDate, row.Net)
		if err != nil {
			return operation.FromError[*ImportReceipt](fmt.Errorf("row %d (%s): %w", i+1, row.source(), err))
		}
		entry.Player = player
		receipt.Entries = append(receipt.Entries, *entry)

		if source := row.source(); playerservice.NormalizeName(source) != playerservice.NormalizeName(player.Name) {
			s.logger.InfoContext(ctx, "Row booked under a different name",
				attr.ExtractCorrelationID(ctx),
				attr.String("import_id", req.ImportID),
				attr.String("source_name", source),
				attr.String("player", player.Name),
				attr.Int64("player_id", player.ID),
			)
			receipt.Renamed = append(receipt.Renamed, RenamedRow{SourceName: source, PlayerID: player.ID, Name: player.Name})
		}
	}

	s.logger.InfoContext(ctx, "Import confirmed",
		attr.ExtractCorrelationID(ctx),
		attr.String("import_id", req.ImportID),
		attr.String("game_date", req.GameDate.String()),
		attr.Int("entries", len(receipt.Entries)),
		attr.Int("players_created", receipt.PlayersCreated),
		attr.Int("renamed", len(receipt.Renamed)),
	)
	return operation.Success(receipt), nil
}

// resolveRow returns the target player for row, creating it when asked. dir
// tracks players created earlier in the same pass.
func (s *SessionService) resolveRow(ctx context.Context, db bun.IDB, dir *playerservice.Directory, line int, row ResolvedRow) (*playerdb.Player, bool, error) {
	name := playerservice.NormalizeName(row.Name)
	if name == "" && row.PlayerID == nil {
		return nil, false, ledgererr.Validation("row %d: player name is empty", line)
	}

	switch row.Action {
	case ActionMatch:
		if row.PlayerID == nil {
			if p, ok := dir.Resolve(row.Name); ok {
				return p, false, nil
			}
			return nil, false, ledgererr.New(ledgererr.CodeUnresolvedMatch, "row %d: no existing player named %q", line, row.Name)
		}
		p, err := s.players.GetByID(ctx, db, *row.PlayerID)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return nil, false, ledgererr.New(ledgererr.CodeUnresolvedMatch, "row %d: player %d does not exist", line, *row.PlayerID)
			}
			return nil, false, fmt.Errorf("failed to get player: %w", err)
		}
		return p, false, nil

	case ActionCreate:
		if p, ok := dir.Resolve(row.Name); ok {
			return nil, false, ledgererr.New(ledgererr.CodeNameCollision, "row %d: player %q already exists as %q", line, row.Name, p.Name)
		}
		p := &playerdb.Player{Name: strings.TrimSpace(row.Name)}
		if err := s.players.Create(ctx, db, p); err != nil {
			if errors.Is(err, playerdb.ErrDuplicateName) {
				return nil, false, ledgererr.New(ledgererr.CodeNameCollision, "row %d: player %q already exists", line, row.Name)
			}
			return nil, false, fmt.Errorf("failed to create player %q: %w", row.Name, err)
		}
		dir.Add(p)
		return p, true, nil

	default:
		return nil, false, ledgererr.Validation("row %d: unknown action %q", line, row.Action)
	}
}
