package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"journal/internal/journal"
	"journal/internal/model"

	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task commands (tasks are addressed by DATE and 0-based INDEX)",
	}
	cmd.AddCommand(newTaskAddCmd(app))
	cmd.AddCommand(newTaskStatusCmd(app))
	cmd.AddCommand(newTaskPriorityCmd(app))
	cmd.AddCommand(newTaskTextCmd(app))
	cmd.AddCommand(newTaskDeleteCmd(app))
	return cmd
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: task index %q must be a non-negative integer", journal.ErrInvalidFormat, s)
	}
	return i, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var priority, status string

	cmd := &cobra.Command{
		Use:   "add DATE TEXT...",
		Short: "Append a task, creating the day's log if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				idx, err := j.AddTask(date, journal.TaskInput{
					Text:     strings.Join(args[1:], " "),
					Priority: model.Priority(priority),
					Status:   model.Status(status),
				})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"date": date, "index": idx}, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Task %d added to %s\n", idx, date)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low|medium|high)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status (todo|in-progress|completed|cancelled)")
	return cmd
}

// newTaskSetCmd builds a "task <name> DATE INDEX VALUE" command.
func newTaskSetCmd(app *App, name, short string, apply func(j *journal.Journal, date string, idx int, value string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " DATE INDEX VALUE",
		Short: short,
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			value := strings.Join(args[2:], " ")
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				if err := apply(j, date, idx, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Task %d on %s: %s → %s\n", idx, date, name, value)
				return nil
			})
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return newTaskSetCmd(app, "status", "Set a task's status", func(j *journal.Journal, date string, idx int, v string) error {
		return j.UpdateTaskStatus(date, idx, model.Status(v))
	})
}

func newTaskPriorityCmd(app *App) *cobra.Command {
	return newTaskSetCmd(app, "priority", "Set a task's priority", func(j *journal.Journal, date string, idx int, v string) error {
		return j.UpdateTaskPriority(date, idx, model.Priority(v))
	})
}

func newTaskTextCmd(app *App) *cobra.Command {
	return newTaskSetCmd(app, "text", "Replace a task's text", func(j *journal.Journal, date string, idx int, v string) error {
		return j.UpdateTaskText(date, idx, v)
	})
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE INDEX",
		Short: "Delete a task (later tasks shift down by one)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				if err := j.DeleteTask(date, idx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted task %d from %s\n", idx, date)
				return nil
			})
		},
	}
}

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsChangeCmd(app, "add", "Add tags to a day", (*journal.Journal).AddTags))
	cmd.AddCommand(newTagsChangeCmd(app, "remove", "Remove tags from a day", (*journal.Journal).RemoveTags))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				tags := j.GetAllTags()
				return writeOut(cmd, app, tags, func(w io.Writer) {
					for _, t := range tags {
						fmt.Fprintln(w, t)
					}
				})
			})
		},
	})
	return cmd
}

func newTagsChangeCmd(app *App, name, short string, change func(j *journal.Journal, date string, tags ...string) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " DATE TAG...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				tags, err := change(j, date, args[1:]...)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, tags, func(w io.Writer) {
					if len(tags) == 0 {
						fmt.Fprintf(w, "%s has no tags\n", date)
						return
					}
					fmt.Fprintf(w, "%s: #%s\n", date, strings.Join(tags, " #"))
				})
			})
		},
	}
}
