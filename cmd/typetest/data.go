package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/ranking"
	"github.com/verte-zerg/typetest/internal/results"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
)

const defaultRuleWidth = 40

var (
	boardMode     string
	boardLevel    string
	boardDuration int

	exportOutput string

	clearYes bool
)

func openResults(path string, logger *slog.Logger) (*results.Store, func(), error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	res := results.New(st, logger)
	res.SetNotifier(func(text string) { logErrln(text) })
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return res, closeFn, nil
}

func openResultsFromSettings() (*results.Store, func(), error) {
	s, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	return openResults(s.DBPath, logging.Discard())
}

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show leaderboards and recent history",
		Args:  cobra.NoArgs,
		RunE:  runBoardCmd,
	}
	cmd.Flags().StringVar(&boardMode, "mode", "", "only show this mode (timed or race)")
	cmd.Flags().StringVar(&boardLevel, "level", "", "only show this level (L1, L2, L3)")
	cmd.Flags().IntVar(&boardDuration, "duration", 0, "only show this timed duration")
	return cmd
}

func runBoardCmd(cmd *cobra.Command, _ []string) error {
	res, closeStore, err := openResultsFromSettings()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	return renderBoard(cmd.OutOrStdout(), res.Leaderboards(ctx), res.History(ctx), boardFilter{
		mode:     model.Mode(boardMode),
		level:    model.Level(boardLevel),
		duration: boardDuration,
	}, ruleWidth(), time.Local)
}

type boardFilter struct {
	mode     model.Mode
	level    model.Level
	duration int
}

func (f boardFilter) match(key string, entries []model.Result) bool {
	mode, ok := ranking.ModeOfKey(key)
	if !ok || len(entries) == 0 {
		return false
	}
	first := entries[0]
	if f.mode != "" && f.mode != mode {
		return false
	}
	if f.level != "" && f.level != first.Level {
		return false
	}
	if f.duration != 0 && (mode != model.ModeTimed || f.duration != first.Duration()) {
		return false
	}
	return true
}

func renderBoard(w io.Writer, board ranking.Leaderboard, history []model.Result, filter boardFilter, width int, loc *time.Location) error {
	keys := lo.Keys(board)
	slices.SortFunc(keys, compareCategoryKeys)
	rule := strings.Repeat("─", width)

	shown := 0
	for _, key := range keys {
		entries := board[key]
		if !filter.match(key, entries) {
			continue
		}
		mode, _ := ranking.ModeOfKey(key)
		if err := stats.RenderLeaderboard(w, categoryTitle(entries[0]), mode, entries, loc); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		shown++
	}
	if shown == 0 {
		if _, err := fmt.Fprintln(w, "No results yet."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, rule); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(w, history, loc); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// compareCategoryKeys orders timed categories by duration before race ones.
func compareCategoryKeys(a, b string) int {
	pa, pb := strings.Split(a, "|"), strings.Split(b, "|")
	if pa[0] != pb[0] {
		return strings.Compare(pb[0], pa[0])
	}
	if len(pa) == 3 && len(pb) == 3 {
		var da, db int
		if _, err := fmt.Sscanf(pa[1], "%d", &da); err == nil {
			if _, err := fmt.Sscanf(pb[1], "%d", &db); err == nil && da != db {
				return da - db
			}
		}
	}
	return strings.Compare(a, b)
}

func categoryTitle(r model.Result) string {
	if r.Mode == model.ModeTimed {
		return fmt.Sprintf("Timed %d s · %s", r.Duration(), r.Level)
	}
	return fmt.Sprintf("Race · %s", r.Level)
}

func ruleWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultRuleWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultRuleWidth
	}
	return min(width, 2*defaultRuleWidth)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leaderboards and history to a JSON file",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: typing-test-results-<timestamp>.json)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	res, closeStore, err := openResultsFromSettings()
	if err != nil {
		return err
	}
	defer closeStore()

	now := time.Now()
	data, err := res.Export(context.Background(), now)
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	path := exportOutput
	if path == "" {
		path = exportFileName(now)
	}
	if path == "-" {
		if _, err := cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return err
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func exportFileName(now time.Time) string {
	return "typing-test-results-" + now.UTC().Format("2006-01-02T15-04-05Z") + ".json"
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "typetest-export-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored results with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	res, closeStore, err := openResultsFromSettings()
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := res.Import(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	entries := lo.Sum(lo.Map(lo.Values(doc.Leaderboard), func(e []model.Result, _ int) int { return len(e) }))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d leaderboard entries in %d categories and %d history entries.\n",
		entries, len(doc.Leaderboard), len(doc.History)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored results",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Delete all leaderboards and history? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	res, closeStore, err := openResultsFromSettings()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := res.Clear(context.Background()); err != nil {
		return err
	}
	logErrln("Results cleared.")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
