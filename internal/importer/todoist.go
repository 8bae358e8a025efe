package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"journal/internal/model"
	"journal/internal/streak"
)

// TodoistImporter reads Todoist CSV exports.
type TodoistImporter struct{}

// Name returns the importer name.
func (t *TodoistImporter) Name() string {
	return "todoist"
}

// Import parses Todoist CSV and adds the tasks to sink.
func (t *TodoistImporter) Import(r io.Reader, sink Sink, fallbackDate string) (*Result, error) {
	tasks, err := t.Preview(r)
	if err != nil {
		return nil, err
	}
	return addAll(tasks, sink, fallbackDate), nil
}

// Preview parses Todoist CSV. Rows whose TYPE is not "task" (notes,
// sections) are skipped.
func (t *TodoistImporter) Preview(r io.Reader) ([]Task, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM
		}
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"TYPE", "CONTENT"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	tasks := []Task{}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if !strings.EqualFold(field(record, "TYPE"), "task") {
			continue
		}

		task := Task{
			Text:     field(record, "CONTENT"),
			Priority: mapTodoistPriority(field(record, "PRIORITY")),
			Project:  field(record, "PROJECT"),
		}
		if task.Text == "" {
			continue
		}
		if due := parseTodoistDate(field(record, "DATE")); due != nil {
			task.Date = streak.DateKey(*due)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// mapTodoistPriority converts Todoist's 1 (urgent) to 4 (normal) scale.
func mapTodoistPriority(priority string) model.Priority {
	switch strings.TrimSpace(priority) {
	case "1", "2":
		return model.PriorityHigh
	case "3":
		return model.PriorityMedium
	case "4":
		return model.PriorityLow
	default:
		return ""
	}
}

var todoistDateLayouts = []string{
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02/2006",
}

// parseTodoistDate parses the date formats Todoist writes, in local time.
func parseTodoistDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range todoistDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
