package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"journal/internal/config"
	"journal/internal/journal"
	"journal/internal/notify"
	"journal/internal/storage"
	"journal/internal/streak"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// App carries the global flags and the state shared by every subcommand.
type App struct {
	ConfigPath string
	DataDir    string
	Backend    string
	LogLevel   string
	JSON       bool
	NoColor    bool

	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time
	notifier notify.Notifier
	saveErr  error
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "journal",
		Short:        "Bullet journal for the terminal: daily logs, habits and streaks",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  journal

  # Log today's work
  journal task add today "Write weekly review" --priority high
  journal habit log run

  # What is still open?
  journal query status todo

  # Weekly report rendered for the terminal
  journal report weekly --render
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("JOURNAL_CONFIG", ""), "Path to config file (default: ~/.config/journal/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", "", "Data directory (overrides config and "+config.EnvDataDir+")")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (file|sqlite)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print results as JSON")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newDailyCmd(app))
	cmd.AddCommand(newTaskCmd(app))
	cmd.AddCommand(newNoteCmd(app))
	cmd.AddCommand(newEventCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newQueryCmd(app))
	cmd.AddCommand(newMonthCmd(app))
	cmd.AddCommand(newYearCmd(app))
	cmd.AddCommand(newHabitCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newImportTasksCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads the config file and applies flag overrides on top of it.
func (app *App) setup(cmd *cobra.Command) error {
	path := app.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if app.DataDir != "" {
		cfg.DataDir = app.DataDir
		// An explicit flag beats the environment.
		if err := os.Setenv(config.EnvDataDir, app.DataDir); err != nil {
			return fmt.Errorf("set %s: %w", config.EnvDataDir, err)
		}
	}
	if app.Backend != "" {
		cfg.Storage.Backend = app.Backend
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if app.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	app.cfg = cfg
	app.logger = logger
	return nil
}

func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openBackend returns the storage backend selected by the config.
func (app *App) openBackend() (storage.Backend, error) {
	switch app.cfg.Storage.Backend {
	case config.BackendSQLite:
		return storage.NewSQLite(app.cfg.SQLitePath())
	default:
		return storage.NewFile(app.cfg.GetDataDir())
	}
}

// openJournal loads the journal and records the first failed save so
// commands can report it.
func (app *App) openJournal() (*journal.Journal, error) {
	backend, err := app.openBackend()
	if err != nil {
		return nil, err
	}
	opts := []journal.Option{
		journal.WithStorageKey(app.cfg.Storage.Key),
		journal.WithLogger(app.logger),
	}
	if app.now != nil {
		opts = append(opts, journal.WithClock(app.now))
	}
	j := journal.New(backend, opts...)
	j.SetOnSave(func(ev journal.SaveEvent) {
		if ev.Err != nil && app.saveErr == nil {
			app.saveErr = fmt.Errorf("save %s %s: %w", ev.ItemType, ev.Key, ev.Err)
		}
	})
	return j, nil
}

// withJournal opens the journal, runs fn and surfaces any save failure.
func (app *App) withJournal(fn func(j *journal.Journal) error) error {
	j, err := app.openJournal()
	if err != nil {
		return err
	}
	if err := fn(j); err != nil {
		return err
	}
	return app.saveErr
}

// resolveDate accepts YYYY-MM-DD or one of today, yesterday and tomorrow.
func resolveDate(j *journal.Journal, arg string) string {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return j.Today()
	case "yesterday":
		return streak.DateKey(j.Now().AddDate(0, 0, -1))
	case "tomorrow":
		return streak.DateKey(j.Now().AddDate(0, 0, 1))
	}
	return arg
}

func dateArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeOut prints v as JSON when --json is set and falls back to text.
func writeOut(cmd *cobra.Command, app *App, v any, text func(w io.Writer)) error {
	if app.JSON || text == nil {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	text(cmd.OutOrStdout())
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable draws rows under headers with a rounded border.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

// confirm asks a yes/no question on the command's streams. EOF counts as no.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
