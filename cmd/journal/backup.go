package main

import (
	"fmt"
	"io"
	"time"

	"journal/internal/backup"
	"journal/internal/journal"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the journal",
		Long: "Creates a timestamped snapshot of the whole journal with a manifest of counts.\n" +
			"Backups live in <data dir>/backups/ and can be restored later.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				m := app.backupManager(j)
				name, err := m.Create(reason)
				if err != nil {
					return fmt.Errorf("create backup: %w", err)
				}
				info, err := m.GetBackup(name)
				if err != nil {
					return fmt.Errorf("read backup info: %w", err)
				}
				return writeOut(cmd, app, info, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Backup created: %s\n", name)
					fmt.Fprintf(w, "  Daily logs: %d, Tasks: %d, Habits: %d\n",
						info.Stats.DailyLogs, info.Stats.Tasks, info.Stats.Habits)
					fmt.Fprintf(w, "  Location: %s\n", info.Path)
				})
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "manual", "Reason recorded in the manifest")

	cmd.AddCommand(newBackupListCmd(app))
	cmd.AddCommand(newBackupPruneCmd(app))
	cmd.AddCommand(newBackupDeleteCmd(app))
	return cmd
}

func newBackupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				backups, err := app.backupManager(j).List()
				if err != nil {
					return fmt.Errorf("list backups: %w", err)
				}
				return writeOut(cmd, app, backups, func(w io.Writer) {
					if len(backups) == 0 {
						fmt.Fprintln(w, "No backups available.")
						fmt.Fprintln(w, "Run 'journal backup' to create one.")
						return
					}
					rows := make([][]string, 0, len(backups))
					for _, b := range backups {
						rows = append(rows, []string{
							b.Name,
							formatAge(j.Now().Sub(b.CreatedAt)),
							b.Reason,
							fmt.Sprintf("%d", b.Stats.DailyLogs),
							fmt.Sprintf("%d", b.Stats.Tasks),
							fmt.Sprintf("%d", b.Stats.Habits),
						})
					}
					renderTable(w, []string{"Name", "Age", "Reason", "Days", "Tasks", "Habits"}, rows)
				})
			})
		},
	}
}

func newBackupPruneCmd(app *App) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = app.cfg.Backup.Keep
			}
			return app.withJournal(func(j *journal.Journal) error {
				removed, err := app.backupManager(j).Prune(keep)
				if err != nil {
					return fmt.Errorf("prune backups: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d backup(s), kept the newest %d\n", removed, keep)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 10, "How many backups to keep (default from config)")
	return cmd
}

func newBackupDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete one backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				if err := app.backupManager(j).Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted backup %s\n", args[0])
				return nil
			})
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	var latest, force bool

	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the journal from a backup",
		Long:  "Restores the journal from a backup. A safety backup of the current journal is taken first.",
		Example: `  journal restore --latest
  journal restore --force 2025-12-15_143022_000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !latest && len(args) == 0 {
				return fmt.Errorf("no backup specified; use 'journal restore NAME' or 'journal restore --latest'")
			}
			return app.withJournal(func(j *journal.Journal) error {
				m := app.backupManager(j)

				var info *backup.BackupInfo
				if latest {
					backups, err := m.List()
					if err != nil {
						return fmt.Errorf("list backups: %w", err)
					}
					if len(backups) == 0 {
						return fmt.Errorf("%w: no backups available", backup.ErrNotFound)
					}
					info = &backups[0]
				} else {
					var err error
					if info, err = m.GetBackup(args[0]); err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Daily logs: %d, Tasks: %d, Habits: %d\n",
					info.Stats.DailyLogs, info.Stats.Tasks, info.Stats.Habits)

				if !force {
					ok, err := confirm(cmd, "⚠ This will overwrite your current journal. Continue?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Restore cancelled.")
						return nil
					}
				}

				safety, err := m.Restore(info.Name)
				if err != nil {
					return fmt.Errorf("restore backup: %w", err)
				}
				fmt.Fprintf(out, "✓ Safety backup: %s\n", safety)
				fmt.Fprintf(out, "✓ Restored successfully from %s\n", info.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Restore from the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return plural(int(d.Hours()/24/7), "week") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
