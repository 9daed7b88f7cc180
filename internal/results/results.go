// Package results persists the leaderboard and history over a key-value store.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/ranking"
	"github.com/verte-zerg/typetest/internal/store"
)

// Fixed storage keys.
const (
	LeaderboardKey = "typingTest:leaderboards:v1"
	HistoryKey     = "typingTest:history:v1"
)

// UnavailableNotice is reported once when storage first fails.
const UnavailableNotice = "Storage is unavailable; some results will not be saved."

// ErrStorageUnavailable wraps every failed storage operation.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store owns the persisted leaderboard and history.
type Store struct {
	kv     store.KV
	logger *slog.Logger
	notify func(string)
	warned bool
}

// New returns a Store over kv. A nil logger discards logs.
func New(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Store{kv: kv, logger: logger}
}

// SetNotifier registers the callback used for the one-time storage notice.
func (s *Store) SetNotifier(fn func(string)) {
	s.notify = fn
}

// Record inserts r into its leaderboard category and the history.
func (s *Store) Record(ctx context.Context, r model.Result) error {
	board := ranking.Insert(s.leaderboard(ctx), r)
	history := ranking.PushHistory(s.History(ctx), r)

	var errs []error
	if err := s.writeJSON(ctx, LeaderboardKey, board); err != nil {
		errs = append(errs, fmt.Errorf("failed to save leaderboard: %w", err))
	}
	if err := s.writeJSON(ctx, HistoryKey, history); err != nil {
		errs = append(errs, fmt.Errorf("failed to save history: %w", err))
	}
	return errors.Join(errs...)
}

// Leaderboard returns the ranked results of one category.
func (s *Store) Leaderboard(ctx context.Context, key string) []model.Result {
	return s.leaderboard(ctx)[key]
}

// Leaderboards returns every stored category.
func (s *Store) Leaderboards(ctx context.Context) ranking.Leaderboard {
	return s.leaderboard(ctx)
}

// History returns the stored history, newest first.
func (s *Store) History(ctx context.Context) []model.Result {
	raw, ok := s.read(ctx, HistoryKey)
	if !ok {
		return []model.Result{}
	}
	return ranking.SanitizeHistory(gjson.Parse(raw))
}

// Export returns the versioned export document.
func (s *Store) Export(ctx context.Context, now time.Time) ([]byte, error) {
	board, err := json.Marshal(s.leaderboard(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	history, err := json.Marshal(s.History(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return ranking.BuildDocument(now, board, history)
}

// Import replaces the stored data with a sanitized export document. A
// document that fails validation leaves the stored data untouched, and a
// failed history write puts the previous leaderboard back.
func (s *Store) Import(ctx context.Context, data []byte) (ranking.Document, error) {
	doc, err := ranking.ParseDocument(data)
	if err != nil {
		return ranking.Document{}, err
	}
	prevBoard, hadBoard, err := s.kv.Get(ctx, LeaderboardKey)
	if err != nil {
		s.fail("read", LeaderboardKey, err)
		return ranking.Document{}, fmt.Errorf("failed to import leaderboard: %w: %w", ErrStorageUnavailable, err)
	}
	if err := s.writeJSON(ctx, LeaderboardKey, doc.Leaderboard); err != nil {
		return ranking.Document{}, fmt.Errorf("failed to import leaderboard: %w", err)
	}
	if err := s.writeJSON(ctx, HistoryKey, doc.History); err != nil {
		s.restore(ctx, LeaderboardKey, prevBoard, hadBoard)
		return ranking.Document{}, fmt.Errorf("failed to import history: %w", err)
	}
	return doc, nil
}

// restore puts back a value read before a partial write.
func (s *Store) restore(ctx context.Context, key, raw string, existed bool) {
	var err error
	if existed {
		err = s.kv.Set(ctx, key, raw)
	} else {
		err = s.kv.Remove(ctx, key)
	}
	if err != nil {
		s.logger.Error("failed to restore stored value", "key", key, "error", err)
	}
}

// Clear removes the stored leaderboard and history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, LeaderboardKey); err != nil {
		s.fail("remove", LeaderboardKey, err)
		return fmt.Errorf("failed to clear leaderboard: %w: %w", ErrStorageUnavailable, err)
	}
	if err := s.kv.Remove(ctx, HistoryKey); err != nil {
		s.fail("remove", HistoryKey, err)
		return fmt.Errorf("failed to clear history: %w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) leaderboard(ctx context.Context) ranking.Leaderboard {
	raw, ok := s.read(ctx, LeaderboardKey)
	if !ok {
		return ranking.Leaderboard{}
	}
	return ranking.SanitizeLeaderboard(gjson.Parse(raw))
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.fail("read", key, err)
		return "", false
	}
	if !ok {
		return "", false
	}
	if !gjson.Valid(raw) {
		s.logger.Warn("discarding malformed stored value", "key", key)
		return "", false
	}
	return raw, true
}

func (s *Store) writeJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.fail("write", key, err)
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) fail(op, key string, err error) {
	s.logger.Error("storage operation failed", "op", op, "key", key, "error", err)
	if s.warned {
		return
	}
	s.warned = true
	if s.notify != nil {
		s.notify(UnavailableNotice)
	}
}
