// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/ranking"
	"github.com/verte-zerg/typetest/internal/results"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/textpool"
)

// StorageNoticeTimeout is how long the storage warning stays visible.
const StorageNoticeTimeout = 4200 * time.Millisecond

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	eng     *engine.Engine
	sched   *engine.LoopScheduler
	results *results.Store
	logger  *slog.Logger

	keys     keyMap
	help     help.Model
	progress progress.Model
	board    table.Model
	history  []model.Result
	// shown is the result the board was loaded for.
	shown *model.Result
	runes runeCache

	width  int
	height int
}

type callbackMsg func()

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB4CA"))
)

// NewModel constructs a typing TUI model. A nil results store disables
// persistence.
func NewModel(cfg model.Config, res *results.Store, pool *textpool.Generator, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	m := &Model{
		config:   cfg,
		sched:    engine.NewLoopScheduler(16),
		results:  res,
		logger:   logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	opts := []engine.Option{
		engine.WithScheduler(m.sched),
		engine.WithPool(pool),
		engine.WithLogger(logger),
	}
	if res != nil {
		opts = append(opts, engine.WithRecorder(res))
	}
	m.eng = engine.New(cfg, opts...)
	if res != nil {
		res.SetNotifier(func(text string) {
			m.eng.Notify(text, StorageNoticeTimeout)
		})
	}
	return m
}

// ReportStorageUnavailable shows the storage warning when the store could not
// be opened at all.
func (m *Model) ReportStorageUnavailable() {
	m.eng.Notify(results.UnavailableNotice, StorageNoticeTimeout)
}

// Close releases scheduler timers. Call it after the program exits.
func (m *Model) Close() {
	m.sched.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForCallback()
}

func (m *Model) waitForCallback() tea.Cmd {
	ch := m.sched.C()
	return func() tea.Msg {
		return callbackMsg(<-ch)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg()
		m.syncFinished()
		return m, m.waitForCallback()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.contentWidth()
		return m, nil
	case tea.BlurMsg:
		m.eng.SetHidden(true)
		return m, nil
	case tea.FocusMsg:
		m.eng.SetHidden(false)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewTest):
		m.newTest()
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.eng.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.Mode):
		if m.config.Mode == model.ModeTimed {
			m.config.Mode = model.ModeRace
		} else {
			m.config.Mode = model.ModeTimed
		}
		m.newTest()
		return m, nil
	case key.Matches(msg, m.keys.Level):
		m.config.Level = cycle(model.Levels, m.config.Level)
		m.newTest()
		return m, nil
	case key.Matches(msg, m.keys.Duration):
		if m.config.Mode == model.ModeTimed {
			m.config.DurationSec = cycle(model.Durations, m.config.DurationSec)
			m.newTest()
		}
		return m, nil
	}
	if msg.Paste {
		m.eng.RejectPaste()
		return m, nil
	}
	if m.eng.KeyDown(engineKey(msg)) {
		return m, nil
	}
	if next, ok := nextInput(m.eng.Snapshot().Input, msg); ok {
		m.eng.Input(next)
		m.syncFinished()
	}
	return m, nil
}

func (m *Model) newTest() {
	m.eng.NewTest(m.config)
	m.shown = nil
	m.history = nil
	m.logger.Debug("new test", "mode", m.config.Mode, "level", m.config.Level, "duration_sec", m.config.DurationSec)
}

func cycle[T comparable](values []T, current T) T {
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}

// syncFinished loads the leaderboard once for a freshly finished session.
func (m *Model) syncFinished() {
	res, ok := m.eng.Result()
	if !ok || m.results == nil {
		return
	}
	if m.shown != nil && m.shown.Equal(res) {
		return
	}
	m.shown = &res
	ctx := context.Background()
	entries := m.results.Leaderboard(ctx, ranking.KeyOf(res))
	m.board = buildBoard(res.Mode, entries, res, time.Local)
	m.history = m.results.History(ctx)
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.eng.Snapshot()
	if len(snap.Target) == 0 {
		return ""
	}
	styledRunes := m.runes.styled(snap.Target, snap.Input, snap.States)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := m.contentWidth()
	wrapped := wrapStyledRunes(styledRunes, contentWidth)

	sections := []string{
		m.renderHeader(snap),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(wrapped),
		"",
		m.renderStats(snap),
	}
	if snap.Mode == model.ModeRace {
		sections = append(sections, m.progress.ViewAs(snap.Progress))
	}
	if snap.Notice != "" {
		sections = append(sections, noticeStyle.Render(snap.Notice))
	}
	if snap.Status == model.StatusFinished && m.shown != nil {
		sections = append(sections, "", m.board.View(), m.renderHistory())
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := footerStyle.Render(m.help.View(m.keys))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) renderHeader(snap engine.Snapshot) string {
	label := "Race"
	if snap.Mode == model.ModeTimed {
		label = fmt.Sprintf("Timed %d s", int(snap.Duration/time.Second))
	}
	status := ""
	switch snap.Status {
	case model.StatusIdle:
		status = "start typing"
	case model.StatusPaused:
		status = "paused"
	case model.StatusFinished:
		status = "finished"
	}
	header := headerStyle.Render(fmt.Sprintf("%s · %s", label, snap.Level))
	if status == "" {
		return header
	}
	return header + footerStyle.Render("  "+status)
}

func (m *Model) renderStats(snap engine.Snapshot) string {
	return footerStyle.Render(statsLine(snap, m.eng.Elapsed()))
}

func statsLine(snap engine.Snapshot, elapsed time.Duration) string {
	var clock string
	if snap.Mode == model.ModeTimed {
		remaining := snap.Duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		clock = "Remaining " + stats.FormatElapsed(remaining.Milliseconds())
	} else {
		clock = "Time " + stats.FormatElapsed(elapsed.Milliseconds())
	}
	segments := []string{
		clock,
		"WPM " + stats.FormatInteger(snap.Metrics.WPM),
		"Accuracy " + stats.FormatInteger(snap.Metrics.Accuracy) + " %",
		fmt.Sprintf("Errors %d", snap.Metrics.Errors),
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderHistory() string {
	if len(m.history) == 0 {
		return ""
	}
	history := m.history
	if len(history) > stats.VisibleHistoryEntries {
		history = history[:stats.VisibleHistoryEntries]
	}
	lines := []string{headerStyle.Render("History")}
	for _, e := range history {
		primary, secondary := stats.HistoryLine(e, time.Local)
		lines = append(lines, primary, footerStyle.Render("  "+secondary))
	}
	return strings.Join(lines, "\n")
}
