package sessionservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	"github.com/Black-And-White-Club/poker-ledger/internal/metrics"
	"github.com/Black-And-White-Club/poker-ledger/internal/testutils"
	ledgerevents "github.com/Black-And-White-Club/poker-ledger/pkg/events/ledger"
	"github.com/Black-And-White-Club/poker-ledger/pkg/ledgererr"
	sharedtypes "github.com/Black-And-White-Club/poker-ledger/pkg/types/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingBus struct {
	mu     sync.Mutex
	topics []string
}

func (b *recordingBus) Publish(_ context.Context, topic string, _ any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return nil
}

func (b *recordingBus) Close() error { return nil }

// failingAppender fails the nth append and delegates the rest.
type failingAppender struct {
	next  EntryAppender
	n     int
	calls int
}

func (f *failingAppender) AppendEntryTx(ctx context.Context, db bun.IDB, playerID int64, date sharedtypes.GameDate, net decimal.Decimal) (*ledgerdb.Entry, error) {
	f.calls++
	if f.calls == f.n {
		return nil, errors.New("disk full")
	}
	return f.next.AppendEntryTx(ctx, db, playerID, date, net)
}

// staleLister hides every existing player from List, as if another writer
// created them after the snapshot was taken.
type staleLister struct {
	playerdb.Repository
}

func (staleLister) List(context.Context, bun.IDB) ([]playerdb.Player, error) {
	return nil, nil
}

type sessionEnv struct {
	db      *bun.DB
	svc     *SessionService
	ledger  *ledgerservice.LedgerService
	players playerdb.Repository
	entries ledgerdb.Repository
	bus     *recordingBus
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	logger := testutils.DiscardLogger()
	tracer := noop.NewTracerProvider().Tracer("test")

	env := &sessionEnv{
		db:      db,
		players: playerdb.NewRepository(db),
		entries: ledgerdb.NewRepository(db),
		bus:     &recordingBus{},
	}
	env.ledger = ledgerservice.NewLedgerService(env.entries, env.players, settlementdb.NewRepository(db), nil, logger, metrics.NewNoop(), tracer, db)
	env.svc = NewSessionService(env.players, env.entries, env.ledger, nil, env.bus, logger, metrics.NewNoop(), tracer, db)
	env.svc.now = func() time.Time { return time.Date(2025, time.June, 30, 21, 0, 0, 0, time.UTC) }
	return env
}

func (e *sessionEnv) player(t *testing.T, name string) *playerdb.Player {
	t.Helper()
	p := &playerdb.Player{Name: name}
	require.NoError(t, e.players.Create(context.Background(), nil, p))
	return p
}

func (e *sessionEnv) counts(t *testing.T) (players, entries int) {
	t.Helper()
	ps, err := e.players.List(context.Background(), nil)
	require.NoError(t, err)
	es, err := e.entries.ListAll(context.Background(), nil)
	require.NoError(t, err)
	return len(ps), len(es)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var gameDay = sharedtypes.NewGameDate(2025, time.March, 7)

// createAll confirms every staged row as staged: new rows create, existing
// rows match.
func createAll(staged *StagedImport) ConfirmRequest {
	req := ConfirmRequest{ImportID: staged.ImportID, GameDate: staged.GameDate}
	for _, r := range staged.New {
		req.Rows = append(req.Rows, ResolvedRow{Name: r.Name, Net: r.Net, Action: ActionCreate})
	}
	for _, r := range staged.Existing {
		id := r.Player.ID
		req.Rows = append(req.Rows, ResolvedRow{Name: r.Name, Net: r.Net, Action: ActionMatch, PlayerID: &id})
	}
	return req
}

func TestStageImport_ConsolidatesNames(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	staged, err := env.svc.StageImport(ctx, gameDay, []ImportRow{
		{Name: "Bob", Net: dec("10.00")},
		{Name: "Alice", Net: dec("-15.00")},
		{Name: "bob ", Net: dec("5.00")},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, staged.ImportID)
	require.Len(t, staged.New, 2)
	assert.Equal(t, "Bob", staged.New[0].Name)
	assert.True(t, dec("15").Equal(staged.New[0].Net))
	assert.Equal(t, []string{"Bob", "bob"}, staged.New[0].Spellings)
	assert.Empty(t, staged.Existing)

	require.Len(t, staged.Notes, 1)
	assert.Equal(t, "Bob", staged.Notes[0].Name)
	assert.Equal(t, 2, staged.Notes[0].Rows)

	players, entries := env.counts(t)
	assert.Zero(t, players, "staging must not write")
	assert.Zero(t, entries)

	receipt, err := env.svc.ConfirmImport(ctx, createAll(staged))
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.PlayersCreated)
	require.Len(t, receipt.Entries, 2)
	assert.Empty(t, receipt.Renamed)

	bobEntries, err := env.entries.ListByDate(ctx, nil, gameDay)
	require.NoError(t, err)
	var bobCount int
	for _, e := range bobEntries {
		if e.Player.Name == "Bob" {
			bobCount++
			assert.True(t, dec("15").Equal(e.NetProfit))
			assert.True(t, dec("15").Equal(e.RunningBalance))
		}
	}
	assert.Equal(t, 1, bobCount)
	assert.Equal(t, []string{ledgerevents.SessionImportedV1}, env.bus.topics)
}

func TestStageImport_ClassifiesExisting(t *testing.T) {
	env := newSessionEnv(t)
	charlie := env.player(t, "Charlie")

	staged, err := env.svc.StageImport(context.Background(), gameDay, []ImportRow{
		{Name: "  CHARLIE", Net: dec("3")},
		{Name: "Charly", Net: dec("-3")},
	})
	require.NoError(t, err)

	require.Len(t, staged.Existing, 1)
	assert.Equal(t, charlie.ID, staged.Existing[0].Player.ID)
	assert.Equal(t, "CHARLIE", staged.Existing[0].Name)

	require.Len(t, staged.New, 1)
	require.Len(t, staged.New[0].Suggestions, 1)
	assert.Equal(t, charlie.ID, staged.New[0].Suggestions[0].PlayerID)

	require.Len(t, staged.Players, 1)
	assert.Empty(t, staged.Notes)
}

func TestStageImport_DateAlreadyImported(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()

	staged, err := env.svc.StageImport(ctx, gameDay, []ImportRow{{Name: "Bob", Net: dec("1")}})
	require.NoError(t, err)
	_, err = env.svc.ConfirmImport(ctx, createAll(staged))
	require.NoError(t, err)
	players, entries := env.counts(t)

	_, err = env.svc.StageImport(ctx, gameDay, []ImportRow{{Name: "Zed", Net: dec("4")}})
	require.ErrorIs(t, err, ledgererr.ErrDateAlreadyImported)
	require.ErrorIs(t, err, ledgererr.ErrConflict)

	afterPlayers, afterEntries := env.counts(t)
	assert.Equal(t, players, afterPlayers)
	assert.Equal(t, entries, afterEntries)
}

func TestStageImport_Validation(t *testing.T) {
	env := newSessionEnv(t)
	tests := []struct {
		name string
		date sharedtypes.GameDate
		rows []ImportRow
	}{
		{name: "missing date", rows: []ImportRow{{Name: "Bob", Net: dec("1")}}},
		{name: "no rows", date: gameDay},
		{name: "blank name", date: gameDay, rows: []ImportRow{{Name: "   ", Net: dec("1")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.StageImport(context.Background(), tt.date, tt.rows)
			require.ErrorIs(t, err, ledgererr.ErrValidation)
		})
	}
}

func TestConfirmImport_Errors(t *testing.T) {
	missing := int64(999)
	tests := []struct {
		name    string
		rows    func(existing *playerdb.Player) []ResolvedRow
		wantErr error
	}{
		{
			name: "match to missing player id",
			rows: func(*playerdb.Player) []ResolvedRow {
				return []ResolvedRow{
					{Name: "Newbie", Net: dec("5"), Action: ActionCreate},
					{Name: "Ghost", Net: dec("-5"), Action: ActionMatch, PlayerID: &missing},
				}
			},
			wantErr: ledgererr.ErrUnresolvedMatch,
		},
		{
			name: "match by unknown name",
			rows: func(*playerdb.Player) []ResolvedRow {
				return []ResolvedRow{{Name: "Nobody", Net: dec("1"), Action: ActionMatch}}
			},
			wantErr: ledgererr.ErrUnresolvedMatch,
		},
		{
			name: "create collides with existing player",
			rows: func(*playerdb.Player) []ResolvedRow {
				return []ResolvedRow{{Name: "erin", Net: dec("1"), Action: ActionCreate}}
			},
			wantErr: ledgererr.ErrNameCollision,
		},
		{
			name: "create collides within the same pass",
			rows: func(*playerdb.Player) []ResolvedRow {
				return []ResolvedRow{
					{Name: "Dana", Net: dec("2"), Action: ActionCreate},
					{Name: "dana ", Net: dec("-2"), Action: ActionCreate},
				}
			},
			wantErr: ledgererr.ErrNameCollision,
		},
		{
			name: "same player matched twice",
			rows: func(existing *playerdb.Player) []ResolvedRow {
				return []ResolvedRow{
					{Name: "Erin", Net: dec("2"), Action: ActionMatch, PlayerID: &existing.ID},
					{Name: "Erin", Net: dec("3"), Action: ActionMatch},
				}
			},
			wantErr: ledgererr.ErrDuplicateEntry,
		},
		{
			name: "unknown action",
			rows: func(*playerdb.Player) []ResolvedRow {
				return []ResolvedRow{{Name: "Frank", Net: dec("1"), Action: "merge"}}
			},
			wantErr: ledgererr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newSessionEnv(t)
			erin := env.player(t, "Erin")

			_, err := env.svc.ConfirmImport(context.Background(), ConfirmRequest{GameDate: gameDay, Rows: tt.rows(erin)})
			require.ErrorIs(t, err, tt.wantErr)

			players, entries := env.counts(t)
			assert.Equal(t, 1, players, "created players must be rolled back")
			assert.Zero(t, entries)
			assert.Empty(t, env.bus.topics)
		})
	}
}

func TestConfirmImport_RollsBackOnRowFailure(t *testing.T) {
	env := newSessionEnv(t)
	env.svc.appender = &failingAppender{next: env.ledger, n: 2}

	_, err := env.svc.ConfirmImport(context.Background(), ConfirmRequest{
		GameDate: gameDay,
		Rows: []ResolvedRow{
			{Name: "Gina", Net: dec("5"), Action: ActionCreate},
			{Name: "Hank", Net: dec("-5"), Action: ActionCreate},
		},
	})
	require.ErrorIs(t, err, ledgererr.ErrIntegrity)

	players, entries := env.counts(t)
	assert.Zero(t, players)
	assert.Zero(t, entries)
}

func TestConfirmImport_CreateRacesExistingName(t *testing.T) {
	env := newSessionEnv(t)
	env.player(t, "Erin")
	env.svc.players = staleLister{Repository: env.players}

	_, err := env.svc.ConfirmImport(context.Background(), ConfirmRequest{
		GameDate: gameDay,
		Rows:     []ResolvedRow{{Name: "ERIN", Net: dec("4"), Action: ActionCreate}},
	})
	require.ErrorIs(t, err, ledgererr.ErrNameCollision)
	assert.NotErrorIs(t, err, ledgererr.ErrIntegrity)

	players, entries := env.counts(t)
	assert.Equal(t, 1, players)
	assert.Zero(t, entries)
}

func TestConfirmImport_SourceNames(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()
	cara := env.player(t, "Cara")

	receipt, err := env.svc.ConfirmImport(ctx, ConfirmRequest{
		GameDate: gameDay,
		Rows: []ResolvedRow{
			{Name: "Robert", SourceName: "bob", Net: dec("6"), Action: ActionCreate},
			{Name: "Cara", SourceName: "CaraB", Net: dec("-4"), Action: ActionMatch, PlayerID: &cara.ID},
			{Name: "Dee", SourceName: " dee ", Net: dec("-1"), Action: ActionCreate},
			{Name: "Eli", Net: dec("-1"), Action: ActionCreate},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.PlayersCreated)
	require.Len(t, receipt.Entries, 4)
	assert.Equal(t, "Robert", receipt.Entries[0].Player.Name)

	require.Len(t, receipt.Renamed, 2)
	assert.Equal(t, RenamedRow{SourceName: "bob", PlayerID: receipt.Entries[0].Player.ID, Name: "Robert"}, receipt.Renamed[0])
	assert.Equal(t, RenamedRow{SourceName: "CaraB", PlayerID: cara.ID, Name: "Cara"}, receipt.Renamed[1])

	players, err := env.players.List(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Cara", "Dee", "Eli", "Robert"}, names)
}

func TestConfirmImport_RepeatsDateGuard(t *testing.T) {
	env := newSessionEnv(t)
	ctx := context.Background()
	ivy := env.player(t, "Ivy")

	staged, err := env.svc.StageImport(ctx, gameDay, []ImportRow{{Name: "Jack", Net: dec("7")}})
	require.NoError(t, err)

	// Another import lands between stage and confirm.
	_, err = env.ledger.AppendEntry(ctx, ivy.ID, gameDay, dec("1"))
	require.NoError(t, err)

	_, err = env.svc.ConfirmImport(ctx, createAll(staged))
	require.ErrorIs(t, err, ledgererr.ErrDateAlreadyImported)

	players, _ := env.counts(t)
	assert.Equal(t, 1, players)
}

func TestImportFile(t *testing.T) {
	env := newSessionEnv(t)

	staged, err := env.svc.ImportFile(context.Background(), "2025-03-07", "night.csv",
		[]byte("player_nickname,player_id,net\nBob,a1,1250\nbob,a1,-250\nCara,b2,-1000\n"))
	require.NoError(t, err)

	assert.Equal(t, gameDay, staged.GameDate)
	require.Len(t, staged.New, 2)
	assert.True(t, dec("10").Equal(staged.New[0].Net))
	assert.True(t, dec("-10").Equal(staged.New[1].Net))
	require.Len(t, staged.Notes, 1)

	_, err = env.svc.ImportFile(context.Background(), "2025-03-07", "night.pdf", []byte("x"))
	require.ErrorIs(t, err, ledgererr.ErrValidation)

	_, err = env.svc.ImportFile(context.Background(), "blorp", "night.csv", []byte("player_nickname,net\nBob,1\n"))
	require.ErrorIs(t, err, ledgererr.ErrValidation)
}

func TestParseGameDate(t *testing.T) {
	env := newSessionEnv(t)
	tests := []struct {
		input   string
		want    sharedtypes.GameDate
		wantErr bool
	}{
		{input: "2025-03-07", want: gameDay},
		{input: " 2025-03-07 ", want: gameDay},
		{input: "today", want: sharedtypes.NewGameDate(2025, time.June, 30)},
		{input: "yesterday", want: sharedtypes.NewGameDate(2025, time.June, 29)},
		{input: "", wantErr: true},
		{input: "blorp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := env.svc.ParseGameDate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ledgererr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
