package main

import (
	"fmt"
	"io"
	"strings"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/query"

	"github.com/spf13/cobra"
)

func newQueryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find tasks and logs across every day",
	}

	cmd.AddCommand(newTaskQueryCmd(app, "status STATUS", "Tasks with a status", func(j *journal.Journal, arg string) ([]query.TaskRef, error) {
		return j.GetTasksByStatus(model.Status(arg))
	}))
	cmd.AddCommand(newTaskQueryCmd(app, "priority PRIORITY", "Tasks with a priority", func(j *journal.Journal, arg string) ([]query.TaskRef, error) {
		return j.GetTasksByPriority(model.Priority(arg))
	}))

	cmd.AddCommand(newLogQueryCmd(app, "tag TAG", "Logs carrying a tag", cobra.ExactArgs(1), func(j *journal.Journal, args []string) ([]model.DailyLog, error) {
		return j.GetLogsByTag(args[0]), nil
	}))
	cmd.AddCommand(newLogQueryCmd(app, "tags TAG...", "Logs carrying every tag", cobra.MinimumNArgs(1), func(j *journal.Journal, args []string) ([]model.DailyLog, error) {
		return j.GetLogsByTags(args), nil
	}))
	cmd.AddCommand(newLogQueryCmd(app, "pattern GLOB", "Logs with a tag matching a glob such as 'proj-*'", cobra.ExactArgs(1), func(j *journal.Journal, args []string) ([]model.DailyLog, error) {
		return j.GetLogsByTagPattern(args[0])
	}))
	cmd.AddCommand(newLogQueryCmd(app, "search KEYWORD...", "Logs whose tasks, notes or events mention a keyword", cobra.MinimumNArgs(1), func(j *journal.Journal, args []string) ([]model.DailyLog, error) {
		return j.SearchLogs(strings.Join(args, " ")), nil
	}))
	return cmd
}

func newTaskQueryCmd(app *App, use, short string, find func(j *journal.Journal, arg string) ([]query.TaskRef, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				refs, err := find(j, args[0])
				if err != nil {
					return err
				}
				return writeOut(cmd, app, refs, func(w io.Writer) { printTaskRefs(w, refs) })
			})
		},
	}
}

func newLogQueryCmd(app *App, use, short string, nargs cobra.PositionalArgs, find func(j *journal.Journal, args []string) ([]model.DailyLog, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				logs, err := find(j, args)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, logs, func(w io.Writer) { printLogTable(w, logs) })
			})
		},
	}
}

func printTaskRefs(w io.Writer, refs []query.TaskRef) {
	if len(refs) == 0 {
		fmt.Fprintln(w, "No matching tasks.")
		return
	}
	rows := make([][]string, 0, len(refs))
	for _, r := range refs {
		rows = append(rows, []string{
			r.Date,
			fmt.Sprintf("%d", r.Index),
			string(r.Status),
			string(r.Priority),
			r.Text,
		})
	}
	renderTable(w, []string{"Date", "#", "Status", "Priority", "Task"}, rows)
}
