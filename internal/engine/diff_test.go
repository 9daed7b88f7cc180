package engine

import "testing"

func TestFirstDiffIndex(t *testing.T) {
	cases := []struct {
		prev, next string
		want       int
	}{
		{"abc", "abc", -1},
		{"", "", -1},
		{"abc", "abd", 2},
		{"ab", "abc", 2},
		{"abc", "ab", 2},
		{"", "x", 0},
	}
	for _, tc := range cases {
		if got := FirstDiffIndex([]rune(tc.prev), []rune(tc.next)); got != tc.want {
			t.Fatalf("FirstDiffIndex(%q, %q) = %d, want %d", tc.prev, tc.next, got, tc.want)
		}
	}
}

func TestInsertedSpan(t *testing.T) {
	cases := []struct {
		prev, next       string
		wantStart, wantN int
	}{
		{"ca", "cat", 2, 1},
		{"ct", "cat", 1, 1},
		{"cat", "ca", 2, 0},
		{"cat", "cat", 0, 0},
		{"", "hola", 0, 4},
		{"aa", "aaa", 2, 1},
		{"abc", "axc", 1, 1},
	}
	for _, tc := range cases {
		start, n := InsertedSpan([]rune(tc.prev), []rune(tc.next))
		if start != tc.wantStart || n != tc.wantN {
			t.Fatalf("InsertedSpan(%q, %q) = (%d, %d), want (%d, %d)", tc.prev, tc.next, start, n, tc.wantStart, tc.wantN)
		}
	}
}

func TestTrackKeystrokesCatSequence(t *testing.T) {
	target := []rune("cat")
	steps := []string{"", "c", "cx", "c", "ca", "cat"}
	var keystrokes, mistakes int
	for i := 1; i < len(steps); i++ {
		k, m := TrackKeystrokes([]rune(steps[i-1]), []rune(steps[i]), target)
		keystrokes += k
		mistakes += m
	}
	if keystrokes != 4 || mistakes != 1 {
		t.Fatalf("expected 4 keystrokes and 1 mistake, got %d and %d", keystrokes, mistakes)
	}
}

func TestTrackKeystrokesBeyondTarget(t *testing.T) {
	k, m := TrackKeystrokes([]rune("ab"), []rune("abcd"), []rune("abc"))
	if k != 2 || m != 1 {
		t.Fatalf("expected 2 keystrokes and 1 mistake, got %d and %d", k, m)
	}
}

func TestTrackKeystrokesReplacement(t *testing.T) {
	k, m := TrackKeystrokes([]rune("hxllo"), []rune("hello"), []rune("hello"))
	if k != 1 || m != 0 {
		t.Fatalf("expected 1 keystroke and 0 mistakes, got %d and %d", k, m)
	}
}

func TestCharStates(t *testing.T) {
	got := CharStates([]rune("abcd"), []rune("ax"), false)
	want := []CharState{CharCorrect, CharIncorrect, CharCursor, CharPending}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("state %d = %v, want %v", i, got[i], want[i])
		}
	}
	finished := CharStates([]rune("ab"), []rune("a"), true)
	if finished[1] != CharPending {
		t.Fatalf("expected no cursor once finished, got %v", finished[1])
	}
	full := CharStates([]rune("ab"), []rune("ab"), false)
	if full[0] != CharCorrect || full[1] != CharCorrect {
		t.Fatalf("unexpected states for complete input: %v", full)
	}
}

func TestChangedRange(t *testing.T) {
	start, end, ok := ChangedRange([]rune("ab"), []rune("abc"), 10)
	if !ok || start != 2 || end != 3 {
		t.Fatalf("unexpected range %d-%d ok=%v", start, end, ok)
	}
	start, end, ok = ChangedRange([]rune("abcd"), []rune("ab"), 10)
	if !ok || start != 2 || end != 4 {
		t.Fatalf("unexpected range for deletion %d-%d ok=%v", start, end, ok)
	}
	if _, _, ok := ChangedRange([]rune("ab"), []rune("ab"), 10); ok {
		t.Fatalf("expected no range for identical input")
	}
	if _, _, ok := ChangedRange([]rune("abc"), []rune("abcd"), 3); ok {
		t.Fatalf("expected no range past the target")
	}
}
