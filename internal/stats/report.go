package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/model"
)

// VisibleHistoryEntries is how many history entries are shown.
const VisibleHistoryEntries = 5

const dateLayout = "02/01/06 15:04"

// LeaderboardRows formats ranked results for display. Race boards include a
// time column.
func LeaderboardRows(mode model.Mode, entries []model.Result, loc *time.Location) (headers []string, rows [][]string) {
	if mode == model.ModeRace {
		headers = []string{"#", "Time", "WPM", "Accuracy", "Errors", "Date"}
	} else {
		headers = []string{"#", "WPM", "Accuracy", "Errors", "Date"}
	}
	rows = make([][]string, 0, len(entries))
	for i, e := range entries {
		row := []string{fmt.Sprintf("%d", i+1)}
		if mode == model.ModeRace {
			row = append(row, FormatElapsed(e.TimeMs))
		}
		row = append(row,
			FormatInteger(e.WPM),
			FormatInteger(e.Accuracy)+" %",
			fmt.Sprintf("%d", e.Errors),
			formatDate(e.FinishedAtEpochMs, loc),
		)
		rows = append(rows, row)
	}
	return headers, rows
}

// RenderLeaderboard prints the ranked results of one category.
func RenderLeaderboard(w io.Writer, title string, mode model.Mode, entries []model.Result, loc *time.Location) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results yet.")
		return err
	}
	headers, rows := LeaderboardRows(mode, entries, loc)
	for _, line := range alignLeaderboard(headers, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// alignLeaderboard lays the header and rows out in columns. Every column but
// the trailing date is numeric and aligned to the right.
func alignLeaderboard(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for _, row := range append([][]string{headers}, rows...) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	dateCol := len(headers) - 1
	lines := make([]string, 0, len(rows)+1)
	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == dateCol {
				cells[i] = runewidth.FillRight(cell, w)
			} else {
				cells[i] = runewidth.FillLeft(cell, w)
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return lines
}

// HistoryLine formats a history entry as a primary and a secondary line.
func HistoryLine(e model.Result, loc *time.Location) (primary, secondary string) {
	label := "Race"
	metric := FormatElapsed(e.TimeMs) + " · " + FormatInteger(e.WPM) + " WPM"
	if e.Mode == model.ModeTimed {
		label = fmt.Sprintf("Timed %d s", e.Duration())
		metric = FormatInteger(e.WPM) + " WPM"
	}
	primary = fmt.Sprintf("%s · %s · %s", label, e.Level, metric)
	secondary = fmt.Sprintf("%s %% · %d errors · %s", FormatInteger(e.Accuracy), e.Errors, formatDate(e.FinishedAtEpochMs, loc))
	return primary, secondary
}

// RenderHistory prints the most recent history entries.
func RenderHistory(w io.Writer, history []model.Result, loc *time.Location) error {
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No results yet.")
		return err
	}
	if len(history) > VisibleHistoryEntries {
		history = history[:VisibleHistoryEntries]
	}
	for _, e := range history {
		primary, secondary := HistoryLine(e, loc)
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", primary, secondary); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(epochMs int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(epochMs).In(loc).Format(dateLayout)
}
