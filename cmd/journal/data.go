package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"journal/internal/backup"
	"journal/internal/fsutil"
	"journal/internal/importer"
	"journal/internal/journal"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var output string
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole journal as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				data, err := j.ExportData()
				if err != nil {
					return err
				}
				switch {
				case toClipboard:
					if err := clipboard.WriteAll(string(data)); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "✓ Copied %d bytes to the clipboard\n", len(data))
				case output != "":
					if err := writeFile(output, data); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", output)
				default:
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy to the system clipboard")
	return cmd
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := fsutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newImportCmd(app *App) *cobra.Command {
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the journal with an exported document (- reads stdin)",
		Long: "Replace the journal with an exported document. The current journal is backed up first " +
			"unless backup.before_import is false or --no-backup is given. A malformed document leaves the journal untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			return app.withJournal(func(j *journal.Journal) error {
				if app.cfg.Backup.BeforeImport && !noBackup {
					name, err := app.backupManager(j).Create("pre-import")
					if err != nil {
						return fmt.Errorf("backup before import: %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "✓ Backup created: %s\n", name)
				}
				if err := j.ImportData(data); err != nil {
					return err
				}
				c := j.Counts()
				return writeOut(cmd, app, c, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Imported %d daily logs (%d tasks), %d monthly, %d yearly, %d habits (%d logs)\n",
						c.DailyLogs, c.Tasks, c.MonthlyLogs, c.YearlyLogs, c.Habits, c.HabitLogs)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the backup taken before importing")
	return cmd
}

func newImportTasksCmd(app *App) *cobra.Command {
	var date string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-tasks FORMAT FILE",
		Short: "Add tasks from a Todoist CSV or Taskwarrior JSON export (- reads stdin)",
		Long: "Add tasks from another tool's export to the daily logs. Each task goes to the log of its due date, " +
			"or to --date (default today) when it has none. Projects become tags on that log.\n\n" +
			"Formats: " + strings.Join(importer.SupportedFormats(), ", "),
		Example: strings.TrimSpace(`
  journal import-tasks todoist ~/Downloads/Inbox.csv --dry-run
  task export | journal import-tasks taskwarrior -
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := importer.GetImporter(args[0])
			if imp == nil {
				return fmt.Errorf("%w: unknown format %q (supported: %s)",
					journal.ErrInvalidFormat, args[0], strings.Join(importer.SupportedFormats(), ", "))
			}

			var in io.Reader
			if args[1] == "-" {
				in = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[1], err)
				}
				defer f.Close()
				in = f
			}

			if dryRun {
				tasks, err := imp.Preview(in)
				if err != nil {
					return fmt.Errorf("%w: %s: %v", journal.ErrInvalidFormat, imp.Name(), err)
				}
				return writeOut(cmd, app, tasks, func(w io.Writer) { printImportPreview(w, tasks) })
			}

			return app.withJournal(func(j *journal.Journal) error {
				result, err := imp.Import(in, j, resolveDate(j, date))
				if err != nil {
					return fmt.Errorf("%w: %s: %v", journal.ErrInvalidFormat, imp.Name(), err)
				}
				for _, msg := range result.Errors {
					app.logger.Warn("task not imported", "format", imp.Name(), "error", msg)
				}
				return writeOut(cmd, app, result, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Imported %d task(s) into %d day(s)\n", result.Imported, len(result.Dates))
					if len(result.Errors) > 0 {
						fmt.Fprintf(w, "⚠ %d task(s) failed:\n", len(result.Errors))
						for _, msg := range result.Errors {
							fmt.Fprintf(w, "  %s\n", msg)
						}
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date for tasks without a due date (default today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without changing the journal")
	return cmd
}

func printImportPreview(w io.Writer, tasks []importer.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := ""
		if t.Done {
			done = "✓"
		}
		date := t.Date
		if date == "" {
			date = "-"
		}
		rows = append(rows, []string{date, done, string(t.Priority), importer.ProjectTag(t.Project), t.Text})
	}
	renderTable(w, []string{"Date", "Done", "Priority", "Tag", "Task"}, rows)
}

func newClearCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every log, habit and habit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok, err := confirm(cmd, "⚠ This will erase the whole journal. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled.")
					return nil
				}
			}
			return app.withJournal(func(j *journal.Journal) error {
				name, err := app.backupManager(j).Create("pre-clear")
				if err != nil {
					return fmt.Errorf("backup before clear: %w", err)
				}
				j.ClearAll()
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Journal cleared (backup: %s)\n", name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func (app *App) backupManager(j *journal.Journal) *backup.Manager {
	m := backup.NewManager(app.cfg.BackupDir(), j, version)
	if app.now != nil {
		m.SetNowFunc(app.now)
	}
	return m
}
