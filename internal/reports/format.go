package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"journal/internal/model"

	"github.com/charmbracelet/glamour"
)

// Format selects how a report is written.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "md", "markdown" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want md or json)", s)
	}
}

// FormatDailyJSON formats a daily report as indented JSON.
func FormatDailyJSON(report *DailyReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatWeeklyJSON formats a weekly report as indented JSON.
func FormatWeeklyJSON(report *WeeklyReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

var statusMarks = map[model.Status]string{
	model.StatusCompleted:  "[x]",
	model.StatusInProgress: "[~]",
	model.StatusTodo:       "[ ]",
	model.StatusCancelled:  "[-]",
}

func writeTask(b *strings.Builder, t model.Task) {
	fmt.Fprintf(b, "- %s %s", statusMarks[t.Status], t.Text)
	if t.Priority == model.PriorityHigh {
		b.WriteString(" **(high)**")
	}
	b.WriteString("\n")
}

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily report: %s\n\n", r.Date)

	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n\n", "`"+strings.Join(r.Tags, "` `")+"`")
	}

	t := r.Tasks
	fmt.Fprintf(&b, "## Tasks (%d/%d done, %.1f%%)\n\n", t.CompletedCount, t.TotalCount-len(t.Cancelled), t.CompletionRate)
	if t.TotalCount == 0 {
		b.WriteString("_No tasks._\n")
	}
	for _, group := range [][]model.Task{t.InProgress, t.Pending, t.Completed, t.Cancelled} {
		for _, task := range group {
			writeTask(&b, task)
		}
	}

	if len(r.Events) > 0 {
		b.WriteString("\n## Events\n\n")
		for _, e := range r.Events {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "> %s\n", n)
		}
	}

	h := r.Habits
	fmt.Fprintf(&b, "\n## Habits (%d/%d, %.1f%%)\n\n", h.CompletedCount, h.TotalCount, h.CompletionRate)
	if h.TotalCount == 0 {
		b.WriteString("_No habits._\n")
	} else {
		b.WriteString("| Habit | Done | Streak | Longest |\n|---|:---:|---:|---:|\n")
		for _, s := range h.Habits {
			done := " "
			if s.Done {
				done = "✓"
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", s.Name, done, s.Streak, s.Longest)
		}
	}
	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly report: %s to %s\n\n", r.StartDate, r.EndDate)

	t := r.Tasks
	fmt.Fprintf(&b, "## Tasks\n\n%d added, %d completed (%.1f%%)\n\n", t.TotalAdded, t.TotalCompleted, t.CompletionRate)
	b.WriteString("| Day | Date | Added | Done | Habits |\n|---|---|---:|---:|---:|\n")
	for _, d := range r.DailyBreakdown {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d/%d |\n",
			d.DayOfWeek, d.Date, d.TasksAdded, d.TasksCompleted, d.HabitsComplete, d.HabitsTotal)
	}
	if len(t.TopTags) > 0 {
		b.WriteString("\nTop tags:")
		for _, tc := range t.TopTags {
			fmt.Fprintf(&b, " `%s` (%d)", tc.Tag, tc.Count)
		}
		b.WriteString("\n")
	}

	h := r.Habits
	fmt.Fprintf(&b, "\n## Habits (%d/%d, %.1f%%)\n\n", h.TotalCompleted, h.TotalExpected, h.OverallRate)
	if len(h.Habits) == 0 {
		b.WriteString("_No habits._\n")
		return b.String()
	}
	b.WriteString("| Habit | S M T W T F S | Done | Rate | Streak |\n|---|---|---:|---:|---:|\n")
	for _, s := range h.Habits {
		days := make([]string, len(s.DaysCompleted))
		for i, done := range s.DaysCompleted {
			days[i] = "·"
			if done {
				days[i] = "●"
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %.1f%% | %d |\n",
			s.Name, strings.Join(days, " "), s.CompletedCount, s.ExpectedCount, s.CompletionRate, s.Streak)
	}
	return b.String()
}

// RenderTerminal renders Markdown for a terminal using a glamour standard
// style ("dark", "light", "notty", "ascii").
func RenderTerminal(md, style string, width int) (string, error) {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		// Avoid WithAutoStyle(): it queries the terminal and can block.
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
