package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ledgerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/application"
	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/poker-ledger/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories"
	settlementdb "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ErrNoBackup is returned when a directory holds no player export.
var ErrNoBackup = errors.New("no player export files found")

// Service exports and restores ledger data.
type Service struct {
	players  playerdb.Repository
	entries  ledgerdb.Repository
	payments settlementdb.Repository
	db       *bun.DB
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a backup service over the module repositories.
func NewService(
	players playerdb.Repository,
	entries ledgerdb.Repository,
	payments settlementdb.Repository,
	db *bun.DB,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		players:  players,
		entries:  entries,
		payments: payments,
		db:       db,
		logger:   logger,
		now:      time.Now,
	}
}

// Export writes one timestamped JSON file per table, plus a summary, to dir.
func (s *Service) Export(ctx context.Context, dir string) (*Summary, error) {
	players, err := s.players.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	entries, err := s.entries.ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	payments, err := s.payments.ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	history, err := s.entries.ListHistory(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger history: %w", err)
	}

	names := make(map[int64]string, len(players))
	playerRecords := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		playerRecords = append(playerRecords, PlayerRecord{
			Name:                   p.Name,
			PreferredPaymentMethod: p.PreferredPaymentMethod,
			PaymentID:              p.PaymentID,
			CreatedAt:              formatTime(p.CreatedAt),
		})
	}

	entryRecords := make([]EntryRecord, 0, len(entries))
	for _, e := range entries {
		entryRecords = append(entryRecords, EntryRecord{
			PlayerName:     nameOf(names, e.PlayerID),
			GameDate:       e.GameDate,
			NetProfit:      e.NetProfit,
			RunningBalance: e.RunningBalance,
			CreatedAt:      formatTime(e.CreatedAt),
		})
	}

	paymentRecords := make([]PaymentRecord, 0, len(payments))
	for _, p := range payments {
		rec := PaymentRecord{
			PlayerName:    nameOf(names, p.PlayerID),
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate,
			PaymentMethod: p.PaymentMethod,
			CreatedAt:     formatTime(p.CreatedAt),
		}
		if p.TransferPlayerID != nil {
			if name, ok := names[*p.TransferPlayerID]; ok {
				rec.TransferPlayerName = &name
			}
		}
		paymentRecords = append(paymentRecords, rec)
	}

	historyRecords := make([]HistoryRecord, 0, len(history))
	for _, h := range history {
		historyRecords = append(historyRecords, HistoryRecord{
			PlayerName:   h.PlayerName,
			FinalBalance: h.FinalBalance,
			ClearedDate:  h.ClearedDate,
			CreatedAt:    formatTime(h.CreatedAt),
		})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	now := s.now()
	stamp := now.Format(timestampLayout)
	summary := &Summary{
		ExportDate:         now.UTC(),
		PlayersCount:       len(playerRecords),
		LedgerEntriesCount: len(entryRecords),
		PaymentsCount:      len(paymentRecords),
		HistoryCount:       len(historyRecords),
	}

	files := []struct {
		prefix string
		data   any
	}{
		{playersPrefix, playerRecords},
		{entriesPrefix, entryRecords},
		{paymentsPrefix, paymentRecords},
		{historyPrefix, historyRecords},
	}
	for _, f := range files {
		name := f.prefix + stamp + ".json"
		if err := writeJSON(filepath.Join(dir, name), f.data); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, name)
	}
	if err := writeJSON(filepath.Join(dir, summaryPrefix+stamp+".json"), summary); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Backup exported",
		slog.String("dir", dir),
		slog.Int("players", summary.PlayersCount),
		slog.Int("entries", summary.LedgerEntriesCount),
		slog.Int("payments", summary.PaymentsCount),
		slog.Int("history", summary.HistoryCount),
	)
	return summary, nil
}

// Import restores the most recent export in dir inside one transaction.
// Players that already exist are reused, entries that already exist for a
// (player, date) are kept, and running balances of every touched player are
// recomputed afterwards.
func (s *Service) Import(ctx context.Context, dir string) (*ImportResult, error) {
	files, err := latestFiles(dir)
	if err != nil {
		return nil, err
	}

	var (
		players  []PlayerRecord
		entries  []EntryRecord
		payments []PaymentRecord
		history  []HistoryRecord
	)
	if err := readJSON(files[playersPrefix], &players); err != nil {
		return nil, err
	}
	for prefix, dst := range map[string]any{entriesPrefix: &entries, paymentsPrefix: &payments, historyPrefix: &history} {
		if path, ok := files[prefix]; ok {
			if err := readJSON(path, dst); err != nil {
				return nil, err
			}
		}
	}

	result := &ImportResult{}
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return s.importTx(ctx, tx, players, entries, payments, history, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import backup: %w", err)
	}

	s.logger.InfoContext(ctx, "Backup imported",
		slog.String("dir", dir),
		slog.Int("players_created", result.PlayersCreated),
		slog.Int("entries_created", result.EntriesCreated),
		slog.Int("payments_created", result.PaymentsCreated),
		slog.Int("history_created", result.HistoryCreated),
	)
	return result, nil
}

func (s *Service) importTx(
	ctx context.Context,
	db bun.IDB,
	players []PlayerRecord,
	entries []EntryRecord,
	payments []PaymentRecord,
	history []HistoryRecord,
	result *ImportResult,
) error {
	existing, err := s.players.List(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	dir := playerservice.NewDirectory(existing)

	for _, rec := range players {
		if _, ok := dir.Resolve(rec.Name); ok {
			s.logger.WarnContext(ctx, "Player already exists, skipping", slog.String("player", rec.Name))
			result.PlayersSkipped++
			continue
		}
		p := &playerdb.Player{
			Name:                   strings.TrimSpace(rec.Name),
			PreferredPaymentMethod: rec.PreferredPaymentMethod,
			PaymentID:              rec.PaymentID,
		}
		if err := s.players.Create(ctx, db, p); err != nil {
			return fmt.Errorf("failed to create player %q: %w", rec.Name, err)
		}
		dir.Add(p)
		result.PlayersCreated++
	}

	touched := map[int64]struct{}{}
	for _, rec := range entries {
		p, ok := dir.Resolve(rec.PlayerName)
		if !ok {
			s.logger.WarnContext(ctx, "Player not found, skipping ledger entry", slog.String("player", rec.PlayerName))
			result.EntriesSkipped++
			continue
		}
		exists, err := s.entries.ExistsForPlayerDate(ctx, db, p.ID, rec.GameDate)
		if err != nil {
			return err
		}
		if exists {
			result.EntriesSkipped++
			continue
		}
		entry := &ledgerdb.Entry{
			PlayerID:       p.ID,
			GameDate:       rec.GameDate,
			NetProfit:      rec.NetProfit,
			RunningBalance: rec.RunningBalance,
		}
		if err := s.entries.Insert(ctx, db, entry); err != nil {
			return fmt.Errorf("failed to insert entry for %q on %s: %w", rec.PlayerName, rec.GameDate, err)
		}
		touched[p.ID] = struct{}{}
		result.EntriesCreated++
	}

	ids := make([]int64, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		rows, err := s.entries.ListByPlayer(ctx, db, id)
		if err != nil {
			return err
		}
		if err := s.entries.UpdateAmounts(ctx, db, ledgerservice.Recompute(rows)); err != nil {
			return fmt.Errorf("failed to recompute balances for player %d: %w", id, err)
		}
	}

	for _, rec := range payments {
		p, ok := dir.Resolve(rec.PlayerName)
		if !ok {
			s.logger.WarnContext(ctx, "Player not found, skipping payment", slog.String("player", rec.PlayerName))
			result.PaymentsSkipped++
			continue
		}
		dup, err := s.paymentExists(ctx, db, p.ID, rec)
		if err != nil {
			return err
		}
		if dup {
			result.PaymentsSkipped++
			continue
		}
		payment := &settlementdb.Payment{
			PlayerID:      p.ID,
			Amount:        rec.Amount,
			PaymentDate:   rec.PaymentDate,
			PaymentMethod: rec.PaymentMethod,
		}
		if rec.TransferPlayerName != nil {
			if other, ok := dir.Resolve(*rec.TransferPlayerName); ok {
				payment.TransferPlayerID = &other.ID
			}
		}
		if err := s.payments.Insert(ctx, db, payment); err != nil {
			return fmt.Errorf("failed to insert payment for %q: %w", rec.PlayerName, err)
		}
		result.PaymentsCreated++
	}

	cleared, err := s.entries.ListHistory(ctx, db)
	if err != nil {
		return err
	}
	for _, rec := range history {
		if historyExists(cleared, rec) {
			result.HistorySkipped++
			continue
		}
		h := &ledgerdb.History{
			PlayerName:   rec.PlayerName,
			FinalBalance: rec.FinalBalance,
			ClearedDate:  rec.ClearedDate,
		}
		if err := s.entries.InsertHistory(ctx, db, h); err != nil {
			return fmt.Errorf("failed to insert history for %q: %w", rec.PlayerName, err)
		}
		result.HistoryCreated++
	}
	return nil
}

func (s *Service) paymentExists(ctx context.Context, db bun.IDB, playerID int64, rec PaymentRecord) (bool, error) {
	existing, err := s.payments.ListByPlayer(ctx, db, playerID)
	if err != nil {
		return false, err
	}
	for _, p := range existing {
		if p.Amount.Equal(rec.Amount) && p.PaymentDate.Equal(rec.PaymentDate) && equalOptional(p.PaymentMethod, rec.PaymentMethod) {
			return true, nil
		}
	}
	return false, nil
}

func historyExists(rows []ledgerdb.History, rec HistoryRecord) bool {
	for _, h := range rows {
		if h.PlayerName == rec.PlayerName && h.ClearedDate.Equal(rec.ClearedDate) && h.FinalBalance.Equal(rec.FinalBalance) {
			return true
		}
	}
	return false
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func nameOf(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}

// latestFiles returns, per table prefix, the newest file in dir.
func latestFiles(dir string) (map[string]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	latest := map[string]string{}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		for _, prefix := range []string{playersPrefix, entriesPrefix, paymentsPrefix, historyPrefix} {
			if strings.HasPrefix(name, prefix) && name > filepath.Base(latest[prefix]) {
				latest[prefix] = filepath.Join(dir, name)
			}
		}
	}
	if _, ok := latest[playersPrefix]; !ok {
		return nil, ErrNoBackup
	}
	return latest, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
