// Package textpool selects and buffers the target text for a session.
package textpool

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/typetest/internal/model"
)

// Timed-mode buffer sizing.
const (
	MaxWPMAssumption       = 240
	TargetBufferMultiplier = 1.2
	MinTargetChars         = 320
	MinBufferChars         = 80
	AppendChars            = 320
)

// Generator picks sentences from per-level pools.
type Generator struct {
	rnd   *rand.Rand
	pools map[model.Level][]string
}

// New returns a Generator over the built-in pools seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator over the built-in pools using src.
func NewWithSource(src rand.Source) *Generator {
	pools := make(map[model.Level][]string, len(builtinPools))
	for level, sentences := range builtinPools {
		pools[level] = normalizeAll(sentences)
	}
	return &Generator{rnd: rand.New(src), pools: pools}
}

// Override replaces the pools of the levels present in custom.
func (g *Generator) Override(custom map[model.Level][]string) {
	for level, sentences := range custom {
		if len(sentences) == 0 {
			continue
		}
		g.pools[level] = normalizeAll(sentences)
	}
}

// Pool returns the sentences for level, falling back to L1.
func (g *Generator) Pool(level model.Level) []string {
	if pool, ok := g.pools[level]; ok && len(pool) > 0 {
		return pool
	}
	return g.pools[model.LevelL1]
}

// Sentence returns one sentence chosen uniformly from the level's pool.
func (g *Generator) Sentence(level model.Level) string {
	pool := g.Pool(level)
	return pool[g.rnd.Intn(len(pool))]
}

// TimedTargetChars estimates how many characters a timed session of the given
// duration could consume, with a safety margin.
func TimedTargetChars(durationSec int) int {
	if durationSec < 0 {
		durationSec = 0
	}
	minutes := float64(durationSec) / 60
	estimated := MaxWPMAssumption * 5 * minutes
	target := int(math.Ceil(estimated * TargetBufferMultiplier))
	if target < MinTargetChars {
		return MinTargetChars
	}
	return target
}

// BuildTimed joins random sentences with single spaces until the text is at
// least minLen runes long.
func (g *Generator) BuildTimed(level model.Level, minLen int) string {
	parts := []string{}
	total := 0
	for total < minLen {
		sentence := g.Sentence(level)
		parts = append(parts, sentence)
		total += len([]rune(sentence))
		if total < minLen {
			total++
		}
	}
	return strings.Join(parts, " ")
}

// EnsureBuffer appends chunks to target until at least MinBufferChars runes
// remain beyond typedLen. Existing runes are never modified.
func (g *Generator) EnsureBuffer(level model.Level, target []rune, typedLen int) []rune {
	if typedLen < 0 {
		typedLen = 0
	}
	for len(target)-typedLen < MinBufferChars {
		target = AppendChunk(target, g.BuildTimed(level, AppendChars))
	}
	return target
}

// AppendChunk extends target with chunk, inserting a single separating space
// only when neither side already provides one.
func AppendChunk(target []rune, chunk string) []rune {
	if chunk == "" {
		return target
	}
	add := []rune(chunk)
	if len(target) > 0 && target[len(target)-1] != ' ' && add[0] != ' ' {
		target = append(target, ' ')
	}
	return append(target, add...)
}

func normalizeAll(sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(norm.NFC.String(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
