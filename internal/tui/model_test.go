package tui

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/results"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/textpool"
)

func newTestModel(t *testing.T, cfg model.Config, sentence string) (*Model, *results.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	res := results.New(st, nil)
	pool := textpool.NewWithSource(rand.NewSource(1))
	pool.Override(map[model.Level][]string{cfg.Level: {sentence}})
	m := NewModel(cfg, res, pool, nil)
	t.Cleanup(m.Close)
	return m, res
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTypingRaceRecordsResult(t *testing.T) {
	cfg := model.Config{Mode: model.ModeRace, Level: model.LevelL1, DurationSec: 60}
	m, res := newTestModel(t, cfg, "hola mundo")
	typeText(m, "hola mundo")

	if m.eng.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", m.eng.Status())
	}
	if m.shown == nil {
		t.Fatalf("expected leaderboard to be loaded")
	}
	history := res.History(context.Background())
	if len(history) != 1 || history[0].Mode != model.ModeRace {
		t.Fatalf("unexpected history: %+v", history)
	}
	if len(m.board.Rows()) != 1 {
		t.Fatalf("expected one leaderboard row, got %d", len(m.board.Rows()))
	}
}

func TestBackspaceEditsInput(t *testing.T) {
	cfg := model.Config{Mode: model.ModeRace, Level: model.LevelL1, DurationSec: 60}
	m, _ := newTestModel(t, cfg, "hola")
	typeText(m, "hx")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "o")
	if got := string(m.eng.Snapshot().Input); got != "ho" {
		t.Fatalf("expected input %q, got %q", "ho", got)
	}
	keystrokes, mistakes := m.eng.Counters()
	if keystrokes != 3 || mistakes != 1 {
		t.Fatalf("expected 3 keystrokes and 1 mistake, got %d and %d", keystrokes, mistakes)
	}
}

func TestPasteIsRejected(t *testing.T) {
	cfg := model.Config{Mode: model.ModeRace, Level: model.LevelL1, DurationSec: 60}
	m, _ := newTestModel(t, cfg, "hola")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hola"), Paste: true})
	if got := string(m.eng.Snapshot().Input); got != "" {
		t.Fatalf("expected pasted text to be ignored, got %q", got)
	}
	if m.eng.Notice() != engine.NoticePaste {
		t.Fatalf("unexpected notice %q", m.eng.Notice())
	}
}

func TestBlurPausesRun(t *testing.T) {
	cfg := model.Config{Mode: model.ModeTimed, Level: model.LevelL1, DurationSec: 30}
	m, _ := newTestModel(t, cfg, "uno dos tres")
	typeText(m, "u")
	m.Update(tea.BlurMsg{})
	if m.eng.Status() != model.StatusPaused {
		t.Fatalf("expected paused on blur, got %s", m.eng.Status())
	}
}

func TestNewTestAndCycling(t *testing.T) {
	cfg := model.Config{Mode: model.ModeTimed, Level: model.LevelL1, DurationSec: 60}
	m, _ := newTestModel(t, cfg, "uno dos tres")
	typeText(m, "uno")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.eng.Status() != model.StatusIdle {
		t.Fatalf("expected idle after new test, got %s", m.eng.Status())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.config.DurationSec != 120 {
		t.Fatalf("expected duration 120, got %d", m.config.DurationSec)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.eng.Config().Mode != model.ModeRace {
		t.Fatalf("expected race mode, got %s", m.eng.Config().Mode)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.config.Level != model.LevelL2 {
		t.Fatalf("expected level L2, got %s", m.config.Level)
	}
}

func TestEngineKeyMapping(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want engine.Key
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ñ")}, engine.Key{Name: "ñ"}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, engine.Key{Name: engine.KeySpace}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, engine.Key{Name: engine.KeyBackspace}},
		{tea.KeyMsg{Type: tea.KeyLeft}, engine.Key{Name: engine.KeyArrowLeft}},
		{tea.KeyMsg{Type: tea.KeyCtrlA}, engine.Key{Name: "a", Ctrl: true}},
	}
	for _, tc := range cases {
		if got := engineKey(tc.msg); got != tc.want {
			t.Fatalf("engineKey(%v) = %+v, want %+v", tc.msg, got, tc.want)
		}
	}
}

func TestDeleteWord(t *testing.T) {
	if got := string(deleteWord([]rune("hola mundo  "))); got != "hola " {
		t.Fatalf("unexpected result %q", got)
	}
	if got := string(deleteWord([]rune("hola"))); got != "" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestViewShowsHeaderAndHelp(t *testing.T) {
	cfg := model.Config{Mode: model.ModeTimed, Level: model.LevelL2, DurationSec: 30}
	m, _ := newTestModel(t, cfg, "uno dos tres")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	if !containsAll(out, []string{"Timed 30 s · L2", "Remaining 30.0 s", "new test"}) {
		t.Fatalf("view missing expected text: %s", out)
	}
	if strings.Count(out, "\n") < 3 {
		t.Fatalf("expected multi-line view")
	}
}

func TestStorageUnavailableNoticeWithoutStore(t *testing.T) {
	cfg := model.Config{Mode: model.ModeRace, Level: model.LevelL1, DurationSec: 60}
	pool := textpool.NewWithSource(rand.NewSource(1))
	m := NewModel(cfg, nil, pool, nil)
	t.Cleanup(m.Close)
	m.ReportStorageUnavailable()
	if m.eng.Notice() != results.UnavailableNotice {
		t.Fatalf("expected storage notice, got %q", m.eng.Notice())
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	if !strings.Contains(m.View(), results.UnavailableNotice) {
		t.Fatalf("expected notice in view")
	}
}
