package ranking

import (
	"math/rand"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func timed(wpm, acc float64, errs int, at int64) model.Result {
	d := 60
	return model.Result{Mode: model.ModeTimed, Level: model.LevelL1, DurationSec: &d, TimeMs: 60000, WPM: wpm, Accuracy: acc, Errors: errs, FinishedAtEpochMs: at}
}

func race(timeMs int64, acc float64, errs int, at int64) model.Result {
	return model.Result{Mode: model.ModeRace, Level: model.LevelL2, TimeMs: timeMs, WPM: 50, Accuracy: acc, Errors: errs, FinishedAtEpochMs: at}
}

func TestCategoryKey(t *testing.T) {
	if got := CategoryKey(model.ModeTimed, 60, model.LevelL1); got != "timed|60|L1" {
		t.Fatalf("unexpected timed key %q", got)
	}
	if got := CategoryKey(model.ModeRace, 60, model.LevelL3); got != "race|L3" {
		t.Fatalf("unexpected race key %q", got)
	}
}

func TestCompareTimedFewerErrorsWins(t *testing.T) {
	a := timed(80, 95, 3, 1)
	b := timed(80, 95, 1, 1)
	if CompareTimed(b, a) >= 0 {
		t.Fatalf("expected fewer errors to rank first")
	}
}

func TestCompareTimedOrder(t *testing.T) {
	entries := []model.Result{
		timed(70, 99, 0, 5),
		timed(80, 90, 2, 1),
		timed(80, 95, 2, 1),
		timed(80, 95, 2, 9),
	}
	Sort(model.ModeTimed, entries)
	want := []int64{9, 1, 1, 5}
	for i, e := range entries {
		if e.FinishedAtEpochMs != want[i] {
			t.Fatalf("position %d: got finishedAt %d, want %d (%+v)", i, e.FinishedAtEpochMs, want[i], entries)
		}
	}
	if entries[1].Accuracy != 95 || entries[2].Accuracy != 90 {
		t.Fatalf("expected higher accuracy before lower: %+v", entries)
	}
}

func TestCompareRaceOrder(t *testing.T) {
	entries := []model.Result{
		race(9000, 90, 0, 1),
		race(8000, 90, 3, 1),
		race(8000, 90, 1, 1),
		race(8000, 99, 5, 1),
	}
	Sort(model.ModeRace, entries)
	if entries[0].Accuracy != 99 || entries[1].Errors != 1 || entries[2].Errors != 3 || entries[3].TimeMs != 9000 {
		t.Fatalf("unexpected race order: %+v", entries)
	}
}

func TestInsertKeepsSortedAndBounded(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	board := Leaderboard{}
	for i := 0; i < 50; i++ {
		r := timed(float64(rnd.Intn(120)), float64(rnd.Intn(101)), rnd.Intn(10), int64(i))
		next := Insert(board, r)
		if len(board["timed|60|L1"]) > LeaderboardEntries {
			t.Fatalf("input board mutated beyond bound")
		}
		board = next
		entries := board["timed|60|L1"]
		if len(entries) > LeaderboardEntries {
			t.Fatalf("expected at most %d entries, got %d", LeaderboardEntries, len(entries))
		}
		for j := 1; j < len(entries); j++ {
			if CompareTimed(entries[j-1], entries[j]) > 0 {
				t.Fatalf("entries out of order at %d: %+v", j, entries)
			}
		}
	}
}

func TestInsertDoesNotMutateInput(t *testing.T) {
	board := Insert(Leaderboard{}, timed(50, 90, 1, 1))
	before := board["timed|60|L1"][0]
	_ = Insert(board, timed(99, 99, 0, 2))
	if board["timed|60|L1"][0] != before || len(board["timed|60|L1"]) != 1 {
		t.Fatalf("expected input board untouched")
	}
}

func TestPushHistory(t *testing.T) {
	var history []model.Result
	for i := 0; i < 12; i++ {
		history = PushHistory(history, race(int64(i), 100, 0, int64(i)))
	}
	if len(history) != HistoryEntries {
		t.Fatalf("expected %d history entries, got %d", HistoryEntries, len(history))
	}
	if history[0].FinishedAtEpochMs != 11 || history[len(history)-1].FinishedAtEpochMs != 2 {
		t.Fatalf("expected newest first: %+v", history)
	}
}
