package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/typetest/internal/engine"
)

func styled(target, input string, finished bool) []styledRune {
	t := []rune(target)
	return buildStyledRunes(t, engine.CharStates(t, []rune(input), finished))
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := styled("ab", "a", false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesCursorBetweenWords(t *testing.T) {
	runes := styled("a b", "a", false)
	if runes[1].s != cursorStyle.Render(" ") {
		t.Fatalf("expected cursor style on the space")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := styled("a", "a", true)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := styled("ab", "ax", false)
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := styled("one two", "o", false)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := styled("a b", "ax", false)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	out := wrapStyledRunes(styled("uno dos tres", "", true), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], pendingStyle.Render("t")) {
		t.Fatalf("expected second line to start a word: %q", lines[1])
	}
}

func TestWrapStyledRunesSplitsLongWord(t *testing.T) {
	out := wrapStyledRunes(styled("abcdefgh", "", true), 3)
	if got := strings.Count(out, "\n"); got != 2 {
		t.Fatalf("expected 2 breaks, got %d", got)
	}
}

func TestRuneCacheMatchesFullBuild(t *testing.T) {
	target := []rune("uno dos tres")
	steps := []struct {
		input    string
		finished bool
	}{
		{"", false},
		{"u", false},
		{"ux", false},
		{"uxo ", false},
		{"uxo dos", false},
		{"u", false},
		{"uno d", false},
		{"uno dos tres", true},
		{"uno dos tres", false},
	}
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	var cache runeCache
	for _, step := range steps {
		input := []rune(step.input)
		states := engine.CharStates(target, input, step.finished)
		got := cache.styled(target, input, states)
		want := buildStyledRunes(target, states)
		if len(got) != len(want) {
			t.Fatalf("length mismatch after %q: %d vs %d", step.input, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("rune %d differs after %q: %q vs %q", i, step.input, got[i].s, want[i].s)
			}
		}
	}
}

func TestRuneCacheRebuildsOnNewTarget(t *testing.T) {
	var cache runeCache
	first := []rune("ab")
	cache.styled(first, nil, engine.CharStates(first, nil, false))
	second := []rune("xyz")
	got := cache.styled(second, nil, engine.CharStates(second, nil, false))
	if len(got) != 3 {
		t.Fatalf("expected rebuilt runes, got %d", len(got))
	}
}
