// Package main provides the CLI entrypoint for typetest.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/logging"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/textpool"
	"github.com/verte-zerg/typetest/internal/tui"
)

const (
	defaultMode     = string(model.ModeTimed)
	defaultLevel    = string(model.LevelL1)
	defaultDuration = 60
)

const dotenvFile = ".env"

var (
	practiceMode     string
	practiceLevel    string
	practiceDuration int
	practicePoolFile string
	practiceDebug    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Timed and race typing tests in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "test mode: timed or race")
	rootCmd.Flags().StringVar(&practiceLevel, "level", defaultLevel, "difficulty level: L1, L2 or L3")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "timed test duration in seconds (15, 30, 60, 120)")
	rootCmd.Flags().StringVar(&practicePoolFile, "pool-file", "", "file with custom sentences per level")
	rootCmd.Flags().BoolVar(&practiceDebug, "debug", false, "write debug records to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newClearCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	practice := settings.File.Practice
	applyStringConfig(cmd, "mode", &practiceMode, practice.Mode)
	applyStringConfig(cmd, "level", &practiceLevel, practice.Level)
	applyIntConfig(cmd, "duration", &practiceDuration, practice.Duration)
	applyStringConfig(cmd, "pool-file", &practicePoolFile, practice.PoolFile)

	cfg := model.Config{
		Mode:        model.Mode(practiceMode),
		Level:       model.Level(practiceLevel),
		DurationSec: practiceDuration,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	pool := textpool.New()
	if practicePoolFile != "" {
		custom, err := textpool.LoadPoolFile(practicePoolFile)
		if err != nil {
			return fmt.Errorf("failed to load pool file: %w", err)
		}
		pool.Override(custom)
	}

	level := slog.LevelInfo
	if practiceDebug {
		level = slog.LevelDebug
	}
	logger, logCloser, err := logging.Open(settings.LogPath, level)
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		logger = logging.Discard()
	} else {
		defer func() {
			if cerr := logCloser.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}()
	}

	res, closeStore, err := openResults(settings.DBPath, logger)
	if err != nil {
		// Practice still works without persistence.
		logErrf("%v; results will not be saved\n", err)
		logger.Error("failed to open store", "path", settings.DBPath, "error", err)
	} else {
		defer closeStore()
	}

	m := tui.NewModel(cfg, res, pool, logger)
	defer m.Close()
	if res == nil {
		m.ReportStorageUnavailable()
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// settings is the merged file and environment configuration.
type settings struct {
	File    config.FileConfig
	DBPath  string
	LogPath string
}

func loadSettings() (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv(dotenvFile)
	if err != nil {
		return settings{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return settings{
		File:    fileCfg.Merge(envCfg),
		DBPath:  lo.CoalesceOrEmpty(envCfg.DBPath, config.DefaultDBPath()),
		LogPath: lo.CoalesceOrEmpty(envCfg.LogPath, config.DefaultLogPath()),
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. Environment variables (TYPETEST_MODE,
# TYPETEST_LEVEL, TYPETEST_DURATION, TYPETEST_POOL_FILE) override these and
# CLI flags override both.

[practice]
# mode = %q          # "timed" or "race"
# level = %q            # "L1", "L2" or "L3"
# duration = %d           # Timed duration in seconds: 15, 30, 60 or 120
# pool-file = ""          # Custom sentences, one per line under [L1]/[L2]/[L3]
`,
		defaultMode,
		defaultLevel,
		defaultDuration,
	)
}

func validateConfig(cfg model.Config) error {
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be %q or %q", model.ModeTimed, model.ModeRace)
	}
	if !cfg.Level.Valid() {
		return fmt.Errorf("--level must be one of %s", strings.Join(lo.Map(model.Levels, func(l model.Level, _ int) string {
			return string(l)
		}), ", "))
	}
	if !lo.Contains(model.Durations, cfg.DurationSec) {
		return fmt.Errorf("--duration must be one of 15, 30, 60, 120")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
