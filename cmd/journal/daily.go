package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"journal/internal/journal"
	"journal/internal/model"

	"github.com/spf13/cobra"
)

func newDailyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily log commands",
	}
	cmd.AddCommand(newDailyAddCmd(app))
	cmd.AddCommand(newDailyShowCmd(app))
	cmd.AddCommand(newDailyListCmd(app))
	cmd.AddCommand(newDailyUpdateCmd(app))
	cmd.AddCommand(newDailyDeleteCmd(app))
	return cmd
}

// readInput returns the JSON document given to --input: inline JSON, @file,
// or - for stdin.
func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	switch {
	case input == "-":
		return io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(input, "@"):
		return os.ReadFile(strings.TrimPrefix(input, "@"))
	default:
		return []byte(input), nil
	}
}

func decodeInput(cmd *cobra.Command, input string, v any) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: --input: %v", journal.ErrInvalidFormat, err)
	}
	return nil
}

func newDailyAddCmd(app *App) *cobra.Command {
	var (
		input    string
		tasks    []string
		notes    []string
		events   []string
		tags     []string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add [DATE]",
		Short: "Create (or replace) the log for a date",
		Example: strings.TrimSpace(`
  journal daily add 2025-12-15 --task "Write report" --note "Slept well" --tag work
  journal daily add today --input '{"tasks":["Call Bob",{"text":"Ship","priority":"high"}]}'
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := journal.DailyLogInput{Notes: notes, Events: events, Tags: tags}
			for _, t := range tasks {
				in.Tasks = append(in.Tasks, journal.TaskInput{Text: t, Priority: model.Priority(priority)})
			}
			if input != "" {
				if err := decodeInput(cmd, input, &in); err != nil {
					return err
				}
			}
			return app.withJournal(func(j *journal.Journal) error {
				log, err := j.AddDailyLog(resolveDate(j, dateArg(args, 0)), in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, log, func(w io.Writer) { printDailyLog(w, log) })
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Log as JSON (inline, @file or - for stdin)")
	cmd.Flags().StringArrayVar(&tasks, "task", nil, "Task text (repeatable)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority for --task entries (low|medium|high)")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Note (repeatable)")
	cmd.Flags().StringArrayVar(&events, "event", nil, "Event (repeatable)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newDailyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [DATE]",
		Short: "Show the log for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				log, err := j.GetDailyLog(resolveDate(j, dateArg(args, 0)))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, log, func(w io.Writer) { printDailyLog(w, log) })
			})
		},
	}
}

func newDailyListCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List daily logs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				logs := j.DailyLogsInRange(from, to)
				return writeOut(cmd, app, logs, func(w io.Writer) { printLogTable(w, logs) })
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")
	return cmd
}

func newDailyUpdateCmd(app *App) *cobra.Command {
	var (
		input  string
		notes  []string
		events []string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "update DATE",
		Short: "Replace fields of an existing log",
		Long:  "Replace fields of an existing log. Only the fields given are changed; pass an empty list in --input to clear one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch journal.DailyLogPatch
			if input != "" {
				if err := decodeInput(cmd, input, &patch); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("note") {
				patch.Notes = notes
			}
			if cmd.Flags().Changed("event") {
				patch.Events = events
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = tags
			}
			return app.withJournal(func(j *journal.Journal) error {
				log, err := j.UpdateDailyLog(resolveDate(j, args[0]), patch)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, log, func(w io.Writer) { printDailyLog(w, log) })
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Patch as JSON (inline, @file or - for stdin)")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Replace notes (repeatable)")
	cmd.Flags().StringArrayVar(&events, "event", nil, "Replace events (repeatable)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Replace tags (repeatable)")
	return cmd
}

func newDailyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE",
		Short: "Delete the log for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				if !j.DeleteDailyLog(date) {
					return fmt.Errorf("%w: no log for %s", journal.ErrNotFound, date)
				}
				return writeOut(cmd, app, map[string]any{"deleted": date}, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Deleted log for %s\n", date)
				})
			})
		},
	}
}

func newNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note DATE TEXT...",
		Short: "Append a note to a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				if err := j.AddNote(date, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Note added to %s\n", date)
				return nil
			})
		},
	}
}

func newEventCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "event DATE TEXT...",
		Short: "Append an event to a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withJournal(func(j *journal.Journal) error {
				date := resolveDate(j, args[0])
				if err := j.AddEvent(date, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Event added to %s\n", date)
				return nil
			})
		},
	}
}

var statusMarks = map[model.Status]string{
	model.StatusTodo:       "[ ]",
	model.StatusInProgress: "[~]",
	model.StatusCompleted:  "[x]",
	model.StatusCancelled:  "[-]",
}

func printDailyLog(w io.Writer, log model.DailyLog) {
	fmt.Fprintf(w, "%s\n", log.Date)
	if len(log.Tags) > 0 {
		fmt.Fprintf(w, "  #%s\n", strings.Join(log.Tags, " #"))
	}
	if len(log.Tasks) > 0 {
		fmt.Fprintln(w, "  Tasks:")
		for i, t := range log.Tasks {
			fmt.Fprintf(w, "    %d. %s %s (%s)\n", i, statusMarks[t.Status], t.Text, t.Priority)
		}
	}
	printList(w, "Events", log.Events)
	printList(w, "Notes", log.Notes)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}

func printLogTable(w io.Writer, logs []model.DailyLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No daily logs.")
		return
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		done := 0
		for _, t := range l.Tasks {
			if t.Status == model.StatusCompleted {
				done++
			}
		}
		rows = append(rows, []string{
			l.Date,
			fmt.Sprintf("%d/%d", done, len(l.Tasks)),
			fmt.Sprintf("%d", len(l.Notes)),
			fmt.Sprintf("%d", len(l.Events)),
			strings.Join(l.Tags, ", "),
		})
	}
	renderTable(w, []string{"Date", "Done", "Notes", "Events", "Tags"}, rows)
}
