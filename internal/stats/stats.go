// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// CharsPerWord is the standard characters-per-word convention.
const CharsPerWord = 5

// ThrottleInterval bounds how often live metrics are recomputed.
const ThrottleInterval = 110 * time.Millisecond

// Input carries everything needed to derive live metrics.
type Input struct {
	Typed      []rune
	Target     []rune
	Elapsed    time.Duration
	Keystrokes int
	Mistakes   int
	// Duration is the configured timed-mode duration; zero disables RemainingMs.
	Duration time.Duration
}

// Metrics are the derived statistics for a session.
type Metrics struct {
	ElapsedMs    int64
	CorrectCount int
	WPM          float64
	Accuracy     float64
	Errors       int
	RemainingMs  int64
}

// Compute derives metrics from the current input and counters.
func Compute(in Input) Metrics {
	correct := CorrectCount(in.Typed, in.Target)
	elapsed := in.Elapsed
	if elapsed < 0 {
		elapsed = 0
	}
	keystrokes := clampMin0(in.Keystrokes)
	mistakes := clampMin0(in.Mistakes)
	m := Metrics{
		ElapsedMs:    elapsed.Milliseconds(),
		CorrectCount: correct,
		WPM:          WPM(correct, elapsed),
		Accuracy:     Accuracy(keystrokes, mistakes),
		Errors:       mistakes,
	}
	if in.Duration > 0 {
		remaining := in.Duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		m.RemainingMs = remaining.Milliseconds()
	}
	return m
}

// CorrectCount counts positions where typed matches target.
func CorrectCount(typed, target []rune) int {
	n := 0
	for i, r := range typed {
		if i < len(target) && target[i] == r {
			n++
		}
	}
	return n
}

// WPM returns words per minute for correct characters over elapsed time.
func WPM(correct int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	minutes := float64(elapsed) / float64(time.Minute)
	return (float64(correct) / CharsPerWord) / minutes
}

// Accuracy returns the share of keystrokes that were never wrong, in percent.
func Accuracy(keystrokes, mistakes int) float64 {
	if keystrokes <= 0 {
		return 0
	}
	good := keystrokes - mistakes
	if good < 0 {
		good = 0
	}
	return 100 * float64(good) / float64(keystrokes)
}

// Throttle limits recomputation to one per ThrottleInterval of engine time.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a throttle that allows the first call immediately.
func NewThrottle() *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(ThrottleInterval), 1)}
}

// Allow reports whether a recomputation is due at now.
func (t *Throttle) Allow(now time.Time) bool {
	return t.limiter.AllowN(now, 1)
}

// Reset forces the next Allow through.
func (t *Throttle) Reset() {
	t.limiter = rate.NewLimiter(rate.Every(ThrottleInterval), 1)
}

// FormatElapsed renders milliseconds as "12.3 s" or "1:02.5".
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := float64(ms) / 1000
	minutes := int(math.Floor(totalSeconds / 60))
	seconds := totalSeconds - float64(minutes*60)
	if minutes <= 0 {
		return fmt.Sprintf("%.1f s", seconds)
	}
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// FormatInteger rounds a non-negative value for display.
func FormatInteger(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	return fmt.Sprintf("%d", int64(math.Round(v)))
}

func clampMin0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
