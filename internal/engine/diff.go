package engine

// FirstDiffIndex returns the first index where prev and next differ, or -1
// when they are identical.
func FirstDiffIndex(prev, next []rune) int {
	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		if prev[i] != next[i] {
			return i
		}
	}
	if len(prev) == len(next) {
		return -1
	}
	return n
}

// InsertedSpan isolates the contiguous run of runes present in next but not
// in prev, after trimming the common prefix and the common suffix.
func InsertedSpan(prev, next []rune) (start, count int) {
	start = FirstDiffIndex(prev, next)
	if start == -1 {
		return 0, 0
	}
	prevEnd := len(prev) - 1
	nextEnd := len(next) - 1
	for prevEnd >= start && nextEnd >= start && prev[prevEnd] == next[nextEnd] {
		prevEnd--
		nextEnd--
	}
	count = nextEnd - start + 1
	if count < 0 {
		count = 0
	}
	return start, count
}

// TrackKeystrokes counts the inserted runes between two snapshots and how
// many of them disagree with target at their position. Deletions count as
// nothing.
func TrackKeystrokes(prev, next, target []rune) (keystrokes, mistakes int) {
	start, count := InsertedSpan(prev, next)
	for offset := 0; offset < count; offset++ {
		i := start + offset
		if i >= len(target) || next[i] != target[i] {
			mistakes++
		}
	}
	return count, mistakes
}

// CharState is the render state of one target rune.
type CharState uint8

const (
	CharPending CharState = iota
	CharCorrect
	CharIncorrect
	CharCursor
)

// ChangedRange returns the half-open span of target positions whose
// correctness may differ between prev and next, clamped to targetLen.
func ChangedRange(prev, next []rune, targetLen int) (start, end int, ok bool) {
	start = FirstDiffIndex(prev, next)
	if start == -1 {
		return 0, 0, false
	}
	end = min(max(len(prev), len(next)), targetLen)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// CharStates classifies every target rune against input. The rune under the
// cursor is marked unless the session is finished.
func CharStates(target, input []rune, finished bool) []CharState {
	out := make([]CharState, len(target))
	for i := range target {
		switch {
		case i < len(input) && input[i] == target[i]:
			out[i] = CharCorrect
		case i < len(input):
			out[i] = CharIncorrect
		}
	}
	if !finished && len(input) < len(target) {
		out[len(input)] = CharCursor
	}
	return out
}
