package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"journal/internal/model"
	"journal/internal/streak"
)

// TaskwarriorImporter reads the output of "task export".
type TaskwarriorImporter struct{}

// taskwarriorTask is one task in Taskwarrior's JSON format.
type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
}

// Name returns the importer name.
func (t *TaskwarriorImporter) Name() string {
	return "taskwarrior"
}

// Import parses a Taskwarrior export and adds the tasks to sink. Completed
// tasks keep their completed status.
func (t *TaskwarriorImporter) Import(r io.Reader, sink Sink, fallbackDate string) (*Result, error) {
	tasks, err := t.Preview(r)
	if err != nil {
		return nil, err
	}
	return addAll(tasks, sink, fallbackDate), nil
}

// Preview parses a Taskwarrior export, either a JSON array or one object
// per line. Deleted tasks are skipped.
func (t *TaskwarriorImporter) Preview(r io.Reader) ([]Task, error) {
	return t.parseTasks(r)
}

func (t *TaskwarriorImporter) parseTasks(r io.Reader) ([]Task, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		switch b[0] {
		case ' ', '\t', '\n', '\r':
			_, _ = br.ReadByte()
			continue
		case '[':
			return parseTaskwarriorJSONArray(br)
		default:
			return parseTaskwarriorNDJSON(br)
		}
	}
}

// maxTaskwarriorLineBytes bounds one NDJSON line.
const maxTaskwarriorLineBytes = 4 << 20

func parseTaskwarriorJSONArray(r io.Reader) ([]Task, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	tasks := []Task{}
	var idx int
	for dec.More() {
		idx++
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", idx, err)
		}
		if task, ok := previewFromTaskwarrior(tw); ok {
			tasks = append(tasks, task)
		}
	}

	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	return tasks, nil
}

func parseTaskwarriorNDJSON(br *bufio.Reader) ([]Task, error) {
	tasks := []Task{}
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadBytes('\n')
		if len(line) > maxTaskwarriorLineBytes {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo, maxTaskwarriorLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read NDJSON: %w", err)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var tw taskwarriorTask
			if uerr := json.Unmarshal(line, &tw); uerr != nil {
				return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
			}
			if task, ok := previewFromTaskwarrior(tw); ok {
				tasks = append(tasks, task)
			}
		}
		if err == io.EOF {
			return tasks, nil
		}
	}
}

func previewFromTaskwarrior(tw taskwarriorTask) (Task, bool) {
	text := strings.TrimSpace(tw.Description)
	if tw.Status == "deleted" || text == "" {
		return Task{}, false
	}
	task := Task{
		Text:     text,
		Project:  tw.Project,
		Priority: mapTaskwarriorPriority(tw.Priority),
		Done:     tw.Status == "completed",
	}
	if due := parseTaskwarriorDate(tw.Due); due != nil {
		task.Date = streak.DateKey(*due)
	}
	return task, true
}

// mapTaskwarriorPriority converts Taskwarrior's H, M and L.
func mapTaskwarriorPriority(priority string) model.Priority {
	switch strings.ToUpper(strings.TrimSpace(priority)) {
	case "H":
		return model.PriorityHigh
	case "M":
		return model.PriorityMedium
	case "L":
		return model.PriorityLow
	default:
		return ""
	}
}

// parseTaskwarriorDate parses Taskwarrior's ISO 8601 basic format
// (20140928T211124Z). UTC stamps are converted to local time; stamps
// without a zone are read as local.
func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"20060102T150405Z", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			local := t.Local()
			return &local
		}
	}
	for _, layout := range []string{"20060102T150405", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
