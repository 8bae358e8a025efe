package main

import (
	"fmt"
	"io"
	"strings"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/notify"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newHabitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Habit tracking commands",
	}
	cmd.AddCommand(newHabitCreateCmd(app))
	cmd.AddCommand(newHabitListCmd(app))
	cmd.AddCommand(newHabitShowCmd(app))
	cmd.AddCommand(newHabitUpdateCmd(app))
	cmd.AddCommand(newHabitDeleteCmd(app))
	cmd.AddCommand(newHabitLogCmd(app))
	cmd.AddCommand(newHabitUnlogCmd(app))
	cmd.AddCommand(newHabitToggleCmd(app))
	cmd.AddCommand(newHabitLogsCmd(app))
	cmd.AddCommand(newHabitStreakCmd(app))
	cmd.AddCommand(newHabitStatsCmd(app))
	cmd.AddCommand(newHabitRemindCmd(app))
	return cmd
}

func newHabitCreateCmd(app *App) *cobra.Command {
	var in journal.HabitInput
	var frequency string

	cmd := &cobra.Command{
		Use:   "create NAME...",
		Short: "Create a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = strings.Join(args, " ")
			in.Frequency = model.HabitFrequency(frequency)
			if in.ID == "" {
				in.ID = uuid.NewString()
			}
			return app.withJournal(func(j *journal.Journal) error {
				h, err := j.CreateHabit(in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, h, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Habit created: %s (%s)\n", h.Name, h.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&in.ID, "id", "", "Habit id (default: random UUID)")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "Frequency (daily|weekly|monthly)")
	cmd.Flags().IntVar(&in.Target, "target", 1, "Completions per period")
	cmd.Flags().StringArrayVar(&in.Tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newHabitListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with today's status and streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				habits := j.ListHabits()
				return writeOut(cmd, app, habits, func(w io.Writer) {
					if len(habits) == 0 {
						fmt.Fprintln(w, "No habits yet.")
						fmt.Fprintln(w, "Run 'journal habit create NAME' to add one.")
						return
					}
					today := j.Today()
					rows := make([][]string, 0, len(habits))
					for _, h := range habits {
						s, _ := j.GetHabitStreak(h.ID)
						done := " "
						if j.IsHabitDone(h.ID, today) {
							done = "✓"
						}
						rows = append(rows, []string{
							done, h.Name, string(h.Frequency), renderWeek(j.GetHabitWeek(h.ID)),
							fmt.Sprintf("%d", s.Current), fmt.Sprintf("%d", s.Longest), h.ID,
						})
					}
					renderTable(w, []string{"", "Habit", "Freq", "Week", "Streak", "Best", "ID"}, rows)
				})
			})
		},
	}
}

func renderWeek(week []bool) string {
	dots := make([]string, len(week))
	for i, done := range week {
		dots[i] = "○"
		if done {
			dots[i] = "●"
		}
	}
	return strings.Join(dots, " ")
}

func newHabitShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				h, err := j.GetHabit(args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, h, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s)\n", h.Name, h.ID)
					if h.Description != "" {
						fmt.Fprintf(w, "  %s\n", h.Description)
					}
					fmt.Fprintf(w, "  Frequency: %s, target %d\n", h.Frequency, h.Target)
					if len(h.Tags) > 0 {
						fmt.Fprintf(w, "  Tags: #%s\n", strings.Join(h.Tags, " #"))
					}
					fmt.Fprintf(w, "  Week: %s\n", renderWeek(j.GetHabitWeek(h.ID)))
				})
			})
		},
	}
}

func newHabitUpdateCmd(app *App) *cobra.Command {
	var (
		name, description, frequency string
		target                       int
		tags                         []string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a habit's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch journal.HabitPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("frequency") {
				f := model.HabitFrequency(frequency)
				patch.Frequency = &f
			}
			if flags.Changed("target") {
				patch.Target = &target
			}
			if flags.Changed("tag") {
				patch.Tags = tags
			}
			return app.withJournal(func(j *journal.Journal) error {
				h, err := j.UpdateHabit(args[0], patch)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, h, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Habit updated: %s (%s)\n", h.Name, h.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "New frequency (daily|weekly|monthly)")
	cmd.Flags().IntVar(&target, "target", 0, "New target")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Replace tags (repeatable)")
	return cmd
}

func newHabitDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				if !j.DeleteHabit(args[0]) {
					return fmt.Errorf("%w: habit %q", journal.ErrNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted habit %s\n", args[0])
				return nil
			})
		},
	}
}

func newHabitLogCmd(app *App) *cobra.Command {
	var note string
	var value float64

	cmd := &cobra.Command{
		Use:   "log ID [DATE]",
		Short: "Mark a habit done (default today)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := journal.LogInput{Note: note}
			if cmd.Flags().Changed("value") {
				in.Value = &value
			}
			return app.withJournal(func(j *journal.Journal) error {
				entry, err := j.LogHabit(args[0], resolveDate(j, dateArg(args, 1)), in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, entry, func(w io.Writer) {
					fmt.Fprintf(w, "✓ %s done for %s\n", args[0], entry.Date)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Note for this completion")
	cmd.Flags().Float64Var(&value, "value", 1, "Amount for quantitative habits")
	return cmd
}

func newHabitUnlogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlog ID [DATE]",
		Short: "Remove a habit completion (default today)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, dateArg(args, 1))
				removed, err := j.UnlogHabit(args[0], date)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not logged for %s\n", args[0], date)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s unlogged for %s\n", args[0], date)
				return nil
			})
		},
	}
}

func newHabitToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID [DATE]",
		Short: "Log a habit if it is not done, unlog it otherwise",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, dateArg(args, 1))
				done, err := j.ToggleHabit(args[0], date)
				if err != nil {
					return err
				}
				state := "not done"
				if done {
					state = "done"
				}
				return writeOut(cmd, app, map[string]any{"id": args[0], "date": date, "done": done}, func(w io.Writer) {
					fmt.Fprintf(w, "✓ %s %s for %s\n", args[0], state, date)
				})
			})
		},
	}
}

func newHabitLogsCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "logs ID",
		Short: "List a habit's completions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				logs, err := j.GetHabitLogs(args[0], from, to)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, logs, func(w io.Writer) {
					for _, l := range logs {
						line := l.Date
						if l.Value != 1 {
							line += fmt.Sprintf("  ×%g", l.Value)
						}
						if l.Note != "" {
							line += "  " + l.Note
						}
						fmt.Fprintln(w, line)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")
	return cmd
}

func newHabitStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak ID",
		Short: "Show a habit's current and longest streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				s, err := j.GetHabitStreak(args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, s, func(w io.Writer) {
					fmt.Fprintf(w, "Current streak: %d\nLongest streak: %d\nTotal completions: %d\n",
						s.Current, s.Longest, s.TotalCompletions)
				})
			})
		},
	}
}

func newHabitStatsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats ID",
		Short: "Completion statistics over the last N days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") && app.cfg.UX.StatsDays > 0 {
				days = app.cfg.UX.StatsDays
			}
			return app.withJournal(func(j *journal.Journal) error {
				s, err := j.GetHabitStats(args[0], days)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, s, func(w io.Writer) {
					fmt.Fprintf(w, "Last %d days: %d done, %d missed (%.1f%%)\n",
						s.Days, s.CompletedDays, s.MissedDays, s.CompletionRate)
					fmt.Fprintf(w, "Current streak: %d, longest: %d, total: %d\n",
						s.CurrentStreak, s.LongestStreak, s.TotalCompletions)
				})
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window size in days")
	return cmd
}

func newHabitRemindCmd(app *App) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "List habits not yet done today and optionally send a desktop notification",
		Long: "List habits not yet done today. With --notify, or notify.enabled in the config, " +
			"a desktop notification is sent as well; handy from cron.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("notify") {
				send = app.cfg.Notify.Enabled
			}
			return app.withJournal(func(j *journal.Journal) error {
				today := j.Today()
				habits := j.ListHabits()
				var pending []string
				for _, h := range habits {
					if !j.IsHabitDone(h.ID, today) {
						pending = append(pending, h.Name)
					}
				}

				reminder, due := notify.HabitReminder(pending, len(habits))
				if send && due {
					n := app.notifier
					if n == nil {
						n = notify.New()
					}
					if err := reminder.Send(n, app.cfg.Notify.Sound); err != nil {
						app.logger.Warn("desktop notification failed", "error", err)
					}
				}

				result := map[string]any{"date": today, "total": len(habits), "pending": pending}
				if pending == nil {
					result["pending"] = []string{}
				}
				return writeOut(cmd, app, result, func(w io.Writer) {
					if !due {
						fmt.Fprintf(w, "✓ All %d habits done for %s\n", len(habits), today)
						return
					}
					fmt.Fprintln(w, reminder.Title)
					for _, name := range pending {
						fmt.Fprintf(w, "  ○ %s\n", name)
					}
				})
			})
		},
	}

	cmd.Flags().BoolVar(&send, "notify", false, "Send a desktop notification (default from config)")
	return cmd
}
