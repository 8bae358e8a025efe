// Package importer moves tasks exported from Todoist and Taskwarrior into
// daily logs. Each task lands on the log of its due date, or on a fallback
// date when it has none; its project becomes a tag on that log.
package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/validate"
)

// Result reports what an import did.
type Result struct {
	Imported int      `json:"imported"`
	Dates    []string `json:"dates"`  // logs that received tasks, ascending
	Errors   []string `json:"errors"` // one entry per task that could not be added
}

// Task is a parsed task before it is added to a log.
type Task struct {
	Text     string         `json:"text"`
	Project  string         `json:"project,omitempty"`
	Priority model.Priority `json:"priority,omitempty"` // empty means the journal default
	Date     string         `json:"date,omitempty"`     // YYYY-MM-DD due date, if any
	Done     bool           `json:"done"`
}

// Sink receives imported tasks. *journal.Journal satisfies it.
type Sink interface {
	AddTask(date string, in journal.TaskInput) (int, error)
	AddTags(date string, tags ...string) ([]string, error)
}

// Importer parses one export format.
type Importer interface {
	// Import parses r and adds every task to sink. Tasks without a due
	// date go to fallbackDate.
	Import(r io.Reader, sink Sink, fallbackDate string) (*Result, error)

	// Preview parses r without adding anything.
	Preview(r io.Reader) ([]Task, error)

	// Name returns the format name, e.g. "todoist".
	Name() string
}

// GetImporter returns the importer for format, or nil if it is unknown.
func GetImporter(format string) Importer {
	switch strings.ToLower(format) {
	case "todoist":
		return &TodoistImporter{}
	case "taskwarrior":
		return &TaskwarriorImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the names GetImporter accepts.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// ProjectTag turns a project name into a log tag: lowercased, with runs of
// whitespace replaced by a dash.
func ProjectTag(project string) string {
	return validate.NormalizeTag(strings.Join(strings.Fields(project), "-"))
}

// addAll adds tasks to sink one by one. A task that fails is recorded in
// Errors and the rest still go in.
func addAll(tasks []Task, sink Sink, fallbackDate string) *Result {
	result := &Result{Dates: []string{}, Errors: []string{}}
	for _, t := range tasks {
		date := t.Date
		if date == "" {
			date = fallbackDate
		}
		in := journal.TaskInput{Text: t.Text, Priority: t.Priority}
		if t.Done {
			in.Status = model.StatusCompleted
		}
		if _, err := sink.AddTask(date, in); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Text, err))
			continue
		}
		if tag := ProjectTag(t.Project); tag != "" {
			if _, err := sink.AddTags(date, tag); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: tag %s: %v", t.Text, tag, err))
			}
		}
		result.Imported++
		if !slices.Contains(result.Dates, date) {
			result.Dates = append(result.Dates, date)
		}
	}
	slices.Sort(result.Dates)
	return result
}
