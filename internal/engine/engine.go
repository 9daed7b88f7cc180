// Package engine runs a single typing session: the run state machine, the
// elapsed-time clock, incremental mistake tracking and live statistics.
package engine

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/textpool"
)

const (
	// TickInterval is how often a running session refreshes its clock.
	TickInterval = 50 * time.Millisecond
	// RejectNoticeTimeout is how long paste and drop notices stay visible.
	RejectNoticeTimeout = 2200 * time.Millisecond
	// HintNoticeTimeout is how long the race correction hint stays visible.
	HintNoticeTimeout = 2400 * time.Millisecond
)

// Notice texts shown to the user.
const (
	NoticePaused       = "Paused."
	NoticePausedHidden = "Paused automatically (window lost focus)."
	NoticeRaceHint     = "Correct the errors to finish."
	NoticePaste        = "Pasting is disabled."
	NoticeDrop         = "Dropping text is disabled."
	NoticeFinished     = "Done! Press Ctrl+N for a new test."
)

// PauseReason tells why a session was paused.
type PauseReason int

const (
	PauseManual PauseReason = iota
	PauseHidden
)

// Recorder receives every finished result.
type Recorder interface {
	Record(ctx context.Context, result model.Result) error
}

type session struct {
	status      model.Status
	mode        model.Mode
	level       model.Level
	durationSec int
	target      []rune
	input       []rune
	// elapsed accumulates running time before runStart.
	elapsed       time.Duration
	runStart      time.Time
	keystrokes    int
	mistakes      int
	raceHintShown bool
}

// Engine owns one session at a time. It is not safe for concurrent use;
// every call, including scheduled callbacks, must come from one goroutine.
type Engine struct {
	pool     *textpool.Generator
	now      func() time.Time
	sched    Scheduler
	recorder Recorder
	logger   *slog.Logger

	s        session
	metrics  stats.Metrics
	throttle *stats.Throttle
	result   *model.Result
	runID    string

	notice      string
	cancelTick  func()
	cancelClear func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithScheduler sets the scheduler used for ticks and notice timeouts.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithRecorder sets where finished results go.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithPool sets the text generator.
func WithPool(g *textpool.Generator) Option {
	return func(e *Engine) { e.pool = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with a fresh idle session for cfg.
func New(cfg model.Config, opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		sched:    nopScheduler{},
		throttle: stats.NewThrottle(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = textpool.New()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	e.NewTest(cfg)
	return e
}

// NewTest discards the current session and prepares a new idle one.
func (e *Engine) NewTest(cfg model.Config) {
	e.stopClock()
	if !cfg.Mode.Valid() {
		cfg.Mode = model.ModeTimed
	}
	if !cfg.Level.Valid() {
		cfg.Level = model.LevelL1
	}
	if cfg.DurationSec <= 0 {
		cfg.DurationSec = 60
	}
	var target string
	if cfg.Mode == model.ModeRace {
		target = e.pool.Sentence(cfg.Level)
	} else {
		target = e.pool.BuildTimed(cfg.Level, textpool.TimedTargetChars(cfg.DurationSec))
	}
	e.s = session{
		status:      model.StatusIdle,
		mode:        cfg.Mode,
		level:       cfg.Level,
		durationSec: cfg.DurationSec,
		target:      []rune(target),
	}
	e.result = nil
	e.notice = ""
	e.runID = ""
	e.metrics = e.compute(0)
}

// Config returns the settings of the current session.
func (e *Engine) Config() model.Config {
	return model.Config{Mode: e.s.mode, Level: e.s.level, DurationSec: e.s.durationSec}
}

// Status returns the session status.
func (e *Engine) Status() model.Status {
	return e.s.status
}

// Result returns the finished result, if any.
func (e *Engine) Result() (model.Result, bool) {
	if e.result == nil {
		return model.Result{}, false
	}
	return *e.result, true
}

// Elapsed returns accumulated running time, including the current run.
func (e *Engine) Elapsed() time.Duration {
	return e.elapsedAt(e.now())
}

func (e *Engine) elapsedAt(now time.Time) time.Duration {
	if e.s.status != model.StatusRunning || e.s.runStart.IsZero() {
		return e.s.elapsed
	}
	d := e.s.elapsed + now.Sub(e.s.runStart)
	if d < 0 {
		return 0
	}
	return d
}

// KeyDown handles a key press before any input change it causes. It reports
// whether the key was consumed and must not reach the input.
func (e *Engine) KeyDown(key Key) bool {
	if e.s.status == model.StatusFinished {
		return false
	}
	if key.Name == KeyEnter {
		return true
	}
	if key.Name == KeySpace && !key.Modified() {
		if e.s.status == model.StatusPaused {
			e.Resume()
			return true
		}
		if e.nextExpected() != ' ' {
			e.TogglePause()
			return true
		}
	}
	if e.s.status == model.StatusIdle && !key.Ignorable() {
		e.startRun()
	}
	return false
}

func (e *Engine) nextExpected() rune {
	if len(e.s.input) < len(e.s.target) {
		return e.s.target[len(e.s.input)]
	}
	return 0
}

// Input applies a new full snapshot of the typed text. It reports false when
// the session does not accept input.
func (e *Engine) Input(next string) bool {
	if e.s.status == model.StatusPaused || e.s.status == model.StatusFinished {
		return false
	}
	typed := []rune(norm.NFC.String(next))
	if e.s.mode == model.ModeRace && len(typed) > len(e.s.target) {
		typed = typed[:len(e.s.target)]
	}
	if e.s.mode == model.ModeTimed {
		e.s.target = e.pool.EnsureBuffer(e.s.level, e.s.target, len(typed))
	}

	keystrokes, mistakes := TrackKeystrokes(e.s.input, typed, e.s.target)
	e.s.keystrokes += keystrokes
	e.s.mistakes += mistakes
	e.s.input = typed

	if e.s.status == model.StatusIdle && len(typed) > 0 {
		e.startRun()
	}
	now := e.now()
	e.refreshIfDue(now)

	if e.s.mode == model.ModeRace && e.s.status == model.StatusRunning {
		if string(typed) == string(e.s.target) {
			e.finish(now)
			return true
		}
		if !e.s.raceHintShown && len(typed) == len(e.s.target) {
			e.s.raceHintShown = true
			e.Notify(NoticeRaceHint, HintNoticeTimeout)
		}
	}
	return true
}

func (e *Engine) startRun() {
	if e.s.status != model.StatusIdle {
		return
	}
	e.s.status = model.StatusRunning
	e.s.runStart = e.now()
	e.runID = uuid.NewString()
	e.throttle.Reset()
	e.clearNotice()
	e.scheduleTick()
	e.logger.Info("run started", "run_id", e.runID, "mode", e.s.mode, "level", e.s.level, "duration_sec", e.s.durationSec)
}

// Pause stops the clock of a running session.
func (e *Engine) Pause(reason PauseReason) {
	if e.s.status != model.StatusRunning {
		return
	}
	now := e.now()
	e.s.elapsed = e.elapsedAt(now)
	e.s.runStart = time.Time{}
	e.s.status = model.StatusPaused
	e.stopClock()
	e.metrics = e.compute(e.s.elapsed)
	if reason == PauseHidden {
		e.notice = NoticePausedHidden
	} else {
		e.notice = NoticePaused
	}
	e.logger.Info("run paused", "run_id", e.runID, "elapsed_ms", e.s.elapsed.Milliseconds())
}

// Resume restarts the clock of a paused session.
func (e *Engine) Resume() {
	if e.s.status != model.StatusPaused {
		return
	}
	e.s.status = model.StatusRunning
	e.s.runStart = e.now()
	e.throttle.Reset()
	if e.notice == NoticePaused || e.notice == NoticePausedHidden {
		e.clearNotice()
	}
	e.scheduleTick()
	e.logger.Info("run resumed", "run_id", e.runID)
}

// TogglePause pauses a running session or resumes a paused one.
func (e *Engine) TogglePause() {
	switch e.s.status {
	case model.StatusRunning:
		e.Pause(PauseManual)
	case model.StatusPaused:
		e.Resume()
	}
}

// SetHidden reports host visibility. Hiding a running session pauses it.
func (e *Engine) SetHidden(hidden bool) {
	if hidden && e.s.status == model.StatusRunning {
		e.Pause(PauseHidden)
	}
}

// Tick advances the clock. It runs from the scheduler while running.
func (e *Engine) Tick() {
	e.cancelTick = nil
	if e.s.status != model.StatusRunning {
		return
	}
	now := e.now()
	if e.s.mode == model.ModeTimed && e.elapsedAt(now) >= e.duration() {
		e.finish(now)
		return
	}
	e.refreshIfDue(now)
	e.scheduleTick()
}

// RejectPaste tells the user that pasting is not allowed.
func (e *Engine) RejectPaste() {
	if e.s.status != model.StatusFinished {
		e.Notify(NoticePaste, RejectNoticeTimeout)
	}
}

// RejectDrop tells the user that dropping text is not allowed.
func (e *Engine) RejectDrop() {
	if e.s.status != model.StatusFinished {
		e.Notify(NoticeDrop, RejectNoticeTimeout)
	}
}

// Notify shows text until timeout passes or another notice replaces it. A
// zero timeout keeps it until replaced. Finished sessions keep their notice.
func (e *Engine) Notify(text string, timeout time.Duration) {
	e.cancelNoticeClear()
	e.notice = text
	if timeout <= 0 {
		return
	}
	e.cancelClear = e.sched.AfterFunc(timeout, func() {
		e.cancelClear = nil
		if e.s.status == model.StatusFinished {
			return
		}
		if e.notice == text {
			e.notice = ""
		}
	})
}

// Notice returns the current notice text.
func (e *Engine) Notice() string {
	return e.notice
}

func (e *Engine) clearNotice() {
	e.cancelNoticeClear()
	e.notice = ""
}

func (e *Engine) finish(now time.Time) {
	if e.s.status == model.StatusFinished {
		return
	}
	final := e.elapsedAt(now)
	if e.s.mode == model.ModeTimed {
		final = e.duration()
	}
	e.s.status = model.StatusFinished
	e.s.elapsed = final
	e.s.runStart = time.Time{}
	e.stopClock()
	e.metrics = e.compute(final)

	result := model.Result{
		Mode:              e.s.mode,
		Level:             e.s.level,
		TimeMs:            final.Round(time.Millisecond).Milliseconds(),
		WPM:               e.metrics.WPM,
		Accuracy:          e.metrics.Accuracy,
		Errors:            e.metrics.Errors,
		FinishedAtEpochMs: now.UnixMilli(),
	}
	if e.s.mode == model.ModeTimed {
		d := e.s.durationSec
		result.DurationSec = &d
	}
	e.result = &result
	e.notice = NoticeFinished
	e.logger.Info("run finished", "run_id", e.runID, "wpm", result.WPM, "accuracy", result.Accuracy, "errors", result.Errors, "time_ms", result.TimeMs)

	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(context.Background(), result); err != nil {
		e.logger.Error("failed to record result", "run_id", e.runID, "err", err)
	}
}

// stopClock cancels the pending tick and notice-clear callbacks.
func (e *Engine) stopClock() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
	e.cancelNoticeClear()
}

func (e *Engine) cancelNoticeClear() {
	if e.cancelClear != nil {
		e.cancelClear()
		e.cancelClear = nil
	}
}

func (e *Engine) scheduleTick() {
	if e.cancelTick != nil {
		e.cancelTick()
	}
	e.cancelTick = e.sched.AfterFunc(TickInterval, e.Tick)
}

func (e *Engine) refreshIfDue(now time.Time) {
	if e.s.status == model.StatusPaused || e.s.status == model.StatusFinished {
		return
	}
	if !e.throttle.Allow(now) {
		return
	}
	e.metrics = e.compute(e.elapsedAt(now))
}

func (e *Engine) compute(elapsed time.Duration) stats.Metrics {
	in := stats.Input{
		Typed:      e.s.input,
		Target:     e.s.target,
		Elapsed:    elapsed,
		Keystrokes: e.s.keystrokes,
		Mistakes:   e.s.mistakes,
	}
	if e.s.mode == model.ModeTimed {
		in.Duration = e.duration()
	}
	return stats.Compute(in)
}

func (e *Engine) duration() time.Duration {
	return time.Duration(e.s.durationSec) * time.Second
}
