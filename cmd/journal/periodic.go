package main

import (
	"fmt"
	"io"

	"journal/internal/journal"
	"journal/internal/model"

	"github.com/spf13/cobra"
)

// periodFields binds the three list flags shared by monthly and yearly logs.
type periodFields struct {
	names  [3]string
	values [3][]string
}

func (p *periodFields) bind(cmd *cobra.Command) {
	for i, name := range p.names {
		cmd.Flags().StringArrayVar(&p.values[i], name, nil, "Add a "+name+" entry (repeatable)")
	}
}

// changed returns the value of each flag, or nil when the flag was not given.
func (p *periodFields) changed(cmd *cobra.Command) [3][]string {
	var out [3][]string
	for i, name := range p.names {
		if cmd.Flags().Changed(name) {
			out[i] = p.values[i]
		}
	}
	return out
}

// periodKind adapts monthly and yearly logs to one set of subcommands.
type periodKind[L any] struct {
	noun   string
	key    string
	fields [3]string
	add    func(j *journal.Journal, key string, f [3][]string) (L, error)
	update func(j *journal.Journal, key string, f [3][]string) (L, error)
	get    func(j *journal.Journal, key string) (L, error)
	del    func(j *journal.Journal, key string) bool
	list   func(j *journal.Journal) []L
	print  func(w io.Writer, l L)
}

func newMonthCmd(app *App) *cobra.Command {
	kind := periodKind[model.MonthlyLog]{
		noun:   "month",
		key:    "YYYY-MM",
		fields: [3]string{"goal", "task", "highlight"},
		add: func(j *journal.Journal, key string, f [3][]string) (model.MonthlyLog, error) {
			return j.AddMonthlyLog(key, journal.MonthlyLogInput{Goals: f[0], Tasks: f[1], Highlights: f[2]})
		},
		update: func(j *journal.Journal, key string, f [3][]string) (model.MonthlyLog, error) {
			return j.UpdateMonthlyLog(key, journal.MonthlyLogInput{Goals: f[0], Tasks: f[1], Highlights: f[2]})
		},
		get:  (*journal.Journal).GetMonthlyLog,
		del:  (*journal.Journal).DeleteMonthlyLog,
		list: (*journal.Journal).ListMonthlyLogs,
		print: func(w io.Writer, l model.MonthlyLog) {
			fmt.Fprintln(w, l.Month)
			printList(w, "Goals", l.Goals)
			printList(w, "Tasks", l.Tasks)
			printList(w, "Highlights", l.Highlights)
		},
	}
	return newPeriodCmd(app, kind)
}

func newYearCmd(app *App) *cobra.Command {
	kind := periodKind[model.YearlyLog]{
		noun:   "year",
		key:    "YYYY",
		fields: [3]string{"goal", "overview", "highlight"},
		add: func(j *journal.Journal, key string, f [3][]string) (model.YearlyLog, error) {
			return j.AddYearlyLog(key, journal.YearlyLogInput{Goals: f[0], Overview: f[1], Highlights: f[2]})
		},
		update: func(j *journal.Journal, key string, f [3][]string) (model.YearlyLog, error) {
			return j.UpdateYearlyLog(key, journal.YearlyLogInput{Goals: f[0], Overview: f[1], Highlights: f[2]})
		},
		get:  (*journal.Journal).GetYearlyLog,
		del:  (*journal.Journal).DeleteYearlyLog,
		list: (*journal.Journal).ListYearlyLogs,
		print: func(w io.Writer, l model.YearlyLog) {
			fmt.Fprintln(w, l.Year)
			printList(w, "Goals", l.Goals)
			printList(w, "Overview", l.Overview)
			printList(w, "Highlights", l.Highlights)
		},
	}
	return newPeriodCmd(app, kind)
}

func newPeriodCmd[L any](app *App, kind periodKind[L]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.noun,
		Short: "Future log commands for one " + kind.noun,
	}

	addFields := &periodFields{names: kind.fields}
	add := &cobra.Command{
		Use:   "add " + kind.key,
		Short: "Create (or replace) the " + kind.noun + "'s log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				l, err := kind.add(j, args[0], addFields.values)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, l, func(w io.Writer) { kind.print(w, l) })
			})
		},
	}
	addFields.bind(add)

	updateFields := &periodFields{names: kind.fields}
	update := &cobra.Command{
		Use:   "update " + kind.key,
		Short: "Replace the given lists of an existing " + kind.noun + "'s log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				l, err := kind.update(j, args[0], updateFields.changed(cmd))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, l, func(w io.Writer) { kind.print(w, l) })
			})
		},
	}
	updateFields.bind(update)

	show := &cobra.Command{
		Use:   "show " + kind.key,
		Short: "Show the " + kind.noun + "'s log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				l, err := kind.get(j, args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, l, func(w io.Writer) { kind.print(w, l) })
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete " + kind.key,
		Short: "Delete the " + kind.noun + "'s log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				if !kind.del(j, args[0]) {
					return fmt.Errorf("%w: no %s log for %s", journal.ErrNotFound, kind.noun, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s log %s\n", kind.noun, args[0])
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every " + kind.noun + "'s log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				logs := kind.list(j)
				return writeOut(cmd, app, logs, func(w io.Writer) {
					if len(logs) == 0 {
						fmt.Fprintf(w, "No %s logs.\n", kind.noun)
					}
					for _, l := range logs {
						kind.print(w, l)
					}
				})
			})
		},
	}

	cmd.AddCommand(add, update, show, del, list)
	return cmd
}
