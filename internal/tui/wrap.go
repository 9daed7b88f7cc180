package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/engine"
)

const wrongSpaceGlyph = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(targetRunes []rune, states []engine.CharState) []styledRune {
	currentWord := wordForCursor(findWords(targetRunes), cursorIndex(states))
	out := make([]styledRune, 0, len(targetRunes))
	for i := range targetRunes {
		out = append(out, styleRune(targetRunes[i], states[i], i, currentWord))
	}
	return out
}

func cursorIndex(states []engine.CharState) int {
	for i, st := range states {
		if st == engine.CharCursor {
			return i
		}
	}
	return -1
}

func styleRune(target rune, state engine.CharState, i int, currentWord *wordRange) styledRune {
	displayed := target
	style := pendingStyle
	switch state {
	case engine.CharCorrect:
		style = correctStyle
	case engine.CharIncorrect:
		style = incorrectStyle
		if target == ' ' {
			displayed = wrongSpaceGlyph
		}
	default:
		if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if state == engine.CharCursor {
			style = style.Underline(true)
		}
	}
	return styledRune{
		s:       style.Render(string(displayed)),
		width:   runewidth.RuneWidth(displayed),
		isSpace: target == ' ',
	}
}

// runeCache keeps the styled target between renders and restyles only the
// span touched by the latest input change.
type runeCache struct {
	target []rune
	input  []rune
	states []engine.CharState
	words  []wordRange
	runes  []styledRune
}

func (c *runeCache) styled(target, input []rune, states []engine.CharState) []styledRune {
	if c.runes == nil || string(target) != string(c.target) || len(states) != len(c.states) {
		c.reset(target, input, states)
		return c.runes
	}
	lo, hi := len(target), 0
	if start, end, ok := engine.ChangedRange(c.input, input, len(target)); ok {
		lo, hi = start, end
	}
	oldCursor, newCursor := cursorIndex(c.states), cursorIndex(states)
	if oldCursor != newCursor {
		for _, cur := range []int{oldCursor, newCursor} {
			if cur < 0 {
				continue
			}
			lo, hi = min(lo, cur), max(hi, cur+1)
			if w := wordForCursor(c.words, cur); w != nil {
				lo, hi = min(lo, w.start), max(hi, w.end)
			}
		}
	}
	if lo < hi {
		currentWord := wordForCursor(c.words, newCursor)
		for i := lo; i < hi && i < len(target); i++ {
			c.runes[i] = styleRune(target[i], states[i], i, currentWord)
		}
	}
	c.input = append(c.input[:0], input...)
	c.states = append(c.states[:0], states...)
	return c.runes
}

func (c *runeCache) reset(target, input []rune, states []engine.CharState) {
	c.target = append([]rune(nil), target...)
	c.input = append([]rune(nil), input...)
	c.states = append([]engine.CharState(nil), states...)
	c.words = findWords(target)
	c.runes = buildStyledRunes(target, states)
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at spaces so that words are never split unless
// a single word is wider than width.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
