package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// buildBoard renders the leaderboard of the finished result's category and
// selects the row of the result when it ranked.
func buildBoard(mode model.Mode, entries []model.Result, current model.Result, loc *time.Location) table.Model {
	headers, rows := stats.LeaderboardRows(mode, entries, loc)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		width := runewidth.StringWidth(h)
		for _, row := range rows {
			width = max(width, runewidth.StringWidth(row[i]))
		}
		columns[i] = table.Column{Title: h, Width: width}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#C89A3A"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(len(tableRows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
	for i, e := range entries {
		if e.Equal(current) {
			t.SetCursor(i)
			break
		}
	}
	return t
}
