// Package ranking orders, bounds and sanitizes typing results.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

// Retention limits.
const (
	LeaderboardEntries = 10
	HistoryEntries     = 10
)

// Leaderboard maps a category key to its ranked results.
type Leaderboard map[string][]model.Result

// CategoryKey returns the leaderboard partition for a result's settings.
func CategoryKey(mode model.Mode, durationSec int, level model.Level) string {
	if mode == model.ModeRace {
		return fmt.Sprintf("race|%s", level)
	}
	return fmt.Sprintf("timed|%d|%s", durationSec, level)
}

// KeyOf returns the category key of r.
func KeyOf(r model.Result) string {
	return CategoryKey(r.Mode, r.Duration(), r.Level)
}

// ModeOfKey returns the mode encoded in a category key.
func ModeOfKey(key string) (model.Mode, bool) {
	switch {
	case strings.HasPrefix(key, "race|"):
		return model.ModeRace, true
	case strings.HasPrefix(key, "timed|"):
		return model.ModeTimed, true
	default:
		return "", false
	}
}

// CompareTimed orders timed results: higher WPM, higher accuracy, fewer
// errors, more recent. It returns a negative value when a ranks first.
func CompareTimed(a, b model.Result) int {
	if a.WPM != b.WPM {
		return descending(a.WPM, b.WPM)
	}
	return compareTail(a, b)
}

// CompareRace orders race results: lower time, higher accuracy, fewer
// errors, more recent.
func CompareRace(a, b model.Result) int {
	if a.TimeMs != b.TimeMs {
		if a.TimeMs < b.TimeMs {
			return -1
		}
		return 1
	}
	return compareTail(a, b)
}

func compareTail(a, b model.Result) int {
	if a.Accuracy != b.Accuracy {
		return descending(a.Accuracy, b.Accuracy)
	}
	if a.Errors != b.Errors {
		if a.Errors < b.Errors {
			return -1
		}
		return 1
	}
	switch {
	case a.FinishedAtEpochMs > b.FinishedAtEpochMs:
		return -1
	case a.FinishedAtEpochMs < b.FinishedAtEpochMs:
		return 1
	default:
		return 0
	}
}

func descending(a, b float64) int {
	if a > b {
		return -1
	}
	return 1
}

// Comparator returns the policy for mode.
func Comparator(mode model.Mode) func(a, b model.Result) int {
	if mode == model.ModeRace {
		return CompareRace
	}
	return CompareTimed
}

// Sort orders entries in place under mode's policy.
func Sort(mode model.Mode, entries []model.Result) {
	cmp := Comparator(mode)
	sort.SliceStable(entries, func(i, j int) bool {
		return cmp(entries[i], entries[j]) < 0
	})
}

// Insert returns a new leaderboard with r added to its category, re-sorted
// and truncated. The input board is not modified.
func Insert(board Leaderboard, r model.Result) Leaderboard {
	out := make(Leaderboard, len(board)+1)
	for k, v := range board {
		out[k] = v
	}
	key := KeyOf(r)
	entries := make([]model.Result, 0, len(board[key])+1)
	entries = append(entries, board[key]...)
	entries = append(entries, r)
	Sort(r.Mode, entries)
	if len(entries) > LeaderboardEntries {
		entries = entries[:LeaderboardEntries]
	}
	out[key] = entries
	return out
}

// PushHistory prepends r and truncates to HistoryEntries.
func PushHistory(history []model.Result, r model.Result) []model.Result {
	out := make([]model.Result, 0, len(history)+1)
	out = append(out, r)
	out = append(out, history...)
	if len(out) > HistoryEntries {
		out = out[:HistoryEntries]
	}
	return out
}
