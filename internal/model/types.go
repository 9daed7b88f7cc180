// Package model defines shared data structures.
package model

// Mode selects how a session ends.
type Mode string

const (
	// ModeTimed ends when the configured duration elapses.
	ModeTimed Mode = "timed"
	// ModeRace ends when the input matches the target exactly.
	ModeRace Mode = "race"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeTimed || m == ModeRace
}

// Level identifies a difficulty level and its text pool.
type Level string

// Known levels.
const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
)

// Levels lists the known levels in order.
var Levels = []Level{LevelL1, LevelL2, LevelL3}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelL1, LevelL2, LevelL3:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Durations lists the selectable timed-mode durations in seconds.
var Durations = []int{15, 30, 60, 120}

// Config defines practice settings.
type Config struct {
	Mode        Mode
	Level       Level
	DurationSec int
}

// Result captures a finished session. It is never mutated after creation.
type Result struct {
	Mode              Mode    `json:"mode"`
	Level             Level   `json:"level"`
	DurationSec       *int    `json:"durationSec"`
	TimeMs            int64   `json:"timeMs"`
	WPM               float64 `json:"wpm"`
	Accuracy          float64 `json:"accuracy"`
	Errors            int     `json:"errors"`
	FinishedAtEpochMs int64   `json:"finishedAtEpochMs"`
}

// Duration returns the timed-mode duration or 0 for race results.
func (r Result) Duration() int {
	if r.DurationSec == nil {
		return 0
	}
	return *r.DurationSec
}

// Equal reports whether r and o describe the same result.
func (r Result) Equal(o Result) bool {
	return r.Mode == o.Mode &&
		r.Level == o.Level &&
		(r.DurationSec == nil) == (o.DurationSec == nil) &&
		r.Duration() == o.Duration() &&
		r.TimeMs == o.TimeMs &&
		r.WPM == o.WPM &&
		r.Accuracy == o.Accuracy &&
		r.Errors == o.Errors &&
		r.FinishedAtEpochMs == o.FinishedAtEpochMs
}
