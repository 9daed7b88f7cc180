package engine

import (
	"time"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Status   model.Status
	Mode     model.Mode
	Level    model.Level
	Duration time.Duration
	Target   []rune
	Input    []rune
	States   []CharState
	Metrics  stats.Metrics
	Notice   string
	// Progress is the share of the race target typed, from 0 to 1.
	Progress float64
}

// Snapshot copies the current session state.
func (e *Engine) Snapshot() Snapshot {
	finished := e.s.status == model.StatusFinished
	snap := Snapshot{
		Status:  e.s.status,
		Mode:    e.s.mode,
		Level:   e.s.level,
		Target:  append([]rune(nil), e.s.target...),
		Input:   append([]rune(nil), e.s.input...),
		States:  CharStates(e.s.target, e.s.input, finished),
		Metrics: e.metrics,
		Notice:  e.notice,
	}
	if e.s.mode == model.ModeTimed {
		snap.Duration = e.duration()
	}
	if e.s.mode == model.ModeRace && len(e.s.target) > 0 {
		snap.Progress = float64(len(e.s.input)) / float64(len(e.s.target))
	}
	return snap
}

// Counters returns total keystrokes and mistakes so far.
func (e *Engine) Counters() (keystrokes, mistakes int) {
	return e.s.keystrokes, e.s.mistakes
}
