package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"journal/internal/model"
	"journal/internal/validate"
)

// TaskInput is a task as supplied by a caller. Priority and Status default
// to medium and todo when empty. In JSON it may be a bare string (the task
// text) or an object.
type TaskInput struct {
	Text     string         `json:"text"`
	Priority model.Priority `json:"priority,omitempty"`
	Status   model.Status   `json:"status,omitempty"`
}

// UnmarshalJSON accepts either "text" or {"text": ..., "priority": ..., "status": ...}.
func (in *TaskInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*in = TaskInput{Text: text}
		return nil
	}
	type plain TaskInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*in = TaskInput(p)
	return nil
}

// DailyLogInput is the content of a new daily log.
type DailyLogInput struct {
	Tasks  []TaskInput `json:"tasks"`
	Notes  []string    `json:"notes"`
	Events []string    `json:"events"`
	Tags   []string    `json:"tags"`
}

// DailyLogPatch replaces the fields that are non-nil. Pass an empty,
// non-nil slice to clear a field.
type DailyLogPatch struct {
	Tasks  []TaskInput `json:"tasks"`
	Notes  []string    `json:"notes"`
	Events []string    `json:"events"`
	Tags   []string    `json:"tags"`
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidFormat}, args...)...)
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func checkDate(date string) error {
	if !validate.IsValidDate(date) {
		return invalidf("date %q must be YYYY-MM-DD", date)
	}
	return nil
}

// buildTask validates in and applies defaults.
func (j *Journal) buildTask(in TaskInput) (model.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return model.Task{}, invalidf("task text is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !validate.IsValidPriority(priority) {
		return model.Task{}, invalidf("unknown priority %q", priority)
	}
	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !validate.IsValidStatus(status) {
		return model.Task{}, invalidf("unknown status %q", status)
	}
	return model.Task{
		Text:      text,
		Priority:  priority,
		Status:    status,
		CreatedAt: j.now(),
	}, nil
}

func (j *Journal) buildTasks(in []TaskInput) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(in))
	for i, t := range in {
		task, err := j.buildTask(t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

// AddDailyLog creates the log for date, replacing any log already stored
// there.
func (j *Journal) AddDailyLog(date string, in DailyLogInput) (model.DailyLog, error) {
	if err := checkDate(date); err != nil {
		return model.DailyLog{}, err
	}
	tasks, err := j.buildTasks(in.Tasks)
	if err != nil {
		return model.DailyLog{}, err
	}

	l := &model.DailyLog{
		Date:      date,
		Tasks:     tasks,
		Notes:     copyStrings(in.Notes),
		Events:    copyStrings(in.Events),
		Tags:      validate.NormalizeTags(in.Tags),
		CreatedAt: j.now(),
	}
	j.state.DailyLogs[date] = l
	j.save(SaveEvent{Operation: "add", ItemType: "daily", Key: date})
	return l.Clone(), nil
}

// GetDailyLog returns the log for date.
func (j *Journal) GetDailyLog(date string) (model.DailyLog, error) {
	l, err := j.dailyLog(date)
	if err != nil {
		return model.DailyLog{}, err
	}
	return l.Clone(), nil
}

// HasDailyLog reports whether a log exists for date.
func (j *Journal) HasDailyLog(date string) bool {
	_, ok := j.state.DailyLogs[date]
	return ok
}

func (j *Journal) dailyLog(date string) (*model.DailyLog, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	l, ok := j.state.DailyLogs[date]
	if !ok {
		return nil, notFoundf("no daily log for %s", date)
	}
	return l, nil
}

// dailyLogOrCreate returns the log for date, creating an empty one if needed.
// The new log is not saved; the caller's mutation does that.
func (j *Journal) dailyLogOrCreate(date string) (*model.DailyLog, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	if l, ok := j.state.DailyLogs[date]; ok {
		return l, nil
	}
	l := &model.DailyLog{
		Date:      date,
		Tasks:     []model.Task{},
		Notes:     []string{},
		Events:    []string{},
		Tags:      []string{},
		CreatedAt: j.now(),
	}
	j.state.DailyLogs[date] = l
	return l, nil
}

// ListDailyLogs returns every daily log ordered by date.
func (j *Journal) ListDailyLogs() []model.DailyLog {
	return j.DailyLogsInRange("", "")
}

// DailyLogsInRange returns the logs dated within [start, end], ordered by
// date. An empty bound is open on that side.
func (j *Journal) DailyLogsInRange(start, end string) []model.DailyLog {
	out := []model.DailyLog{}
	for _, date := range slices.Sorted(maps.Keys(j.state.DailyLogs)) {
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		out = append(out, j.state.DailyLogs[date].Clone())
	}
	return out
}

// UpdateDailyLog replaces the fields set in patch on an existing log.
func (j *Journal) UpdateDailyLog(date string, patch DailyLogPatch) (model.DailyLog, error) {
	l, err := j.dailyLog(date)
	if err != nil {
		return model.DailyLog{}, err
	}

	var tasks []model.Task
	if patch.Tasks != nil {
		if tasks, err = j.buildTasks(patch.Tasks); err != nil {
			return model.DailyLog{}, err
		}
	}

	if patch.Tasks != nil {
		l.Tasks = tasks
	}
	if patch.Notes != nil {
		l.Notes = slices.Clone(patch.Notes)
	}
	if patch.Events != nil {
		l.Events = slices.Clone(patch.Events)
	}
	if patch.Tags != nil {
		l.Tags = validate.NormalizeTags(patch.Tags)
	}
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "update", ItemType: "daily", Key: date})
	return l.Clone(), nil
}

// DeleteDailyLog removes the log for date and reports whether it existed.
func (j *Journal) DeleteDailyLog(date string) bool {
	if _, ok := j.state.DailyLogs[date]; !ok {
		return false
	}
	delete(j.state.DailyLogs, date)
	j.save(SaveEvent{Operation: "delete", ItemType: "daily", Key: date})
	return true
}

// AddTask appends a task to the log for date, creating the log if needed,
// and returns the new task's index.
func (j *Journal) AddTask(date string, in TaskInput) (int, error) {
	if err := checkDate(date); err != nil {
		return 0, err
	}
	task, err := j.buildTask(in)
	if err != nil {
		return 0, err
	}
	l, err := j.dailyLogOrCreate(date)
	if err != nil {
		return 0, err
	}
	l.Tasks = append(l.Tasks, task)
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "add", ItemType: "task", Key: date})
	return len(l.Tasks) - 1, nil
}

func (j *Journal) task(date string, index int) (*model.DailyLog, *model.Task, error) {
	l, err := j.dailyLog(date)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(l.Tasks) {
		return nil, nil, notFoundf("no task %d in %s", index, date)
	}
	return l, &l.Tasks[index], nil
}

// UpdateTaskStatus sets the status of the task at index in the log for date.
func (j *Journal) UpdateTaskStatus(date string, index int, status model.Status) error {
	if !validate.IsValidStatus(status) {
		return invalidf("unknown status %q", status)
	}
	return j.updateTask(date, index, func(t *model.Task) { t.Status = status })
}

// UpdateTaskPriority sets the priority of the task at index.
func (j *Journal) UpdateTaskPriority(date string, index int, priority model.Priority) error {
	if !validate.IsValidPriority(priority) {
		return invalidf("unknown priority %q", priority)
	}
	return j.updateTask(date, index, func(t *model.Task) { t.Priority = priority })
}

// UpdateTaskText replaces the text of the task at index.
func (j *Journal) UpdateTaskText(date string, index int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return invalidf("task text is required")
	}
	return j.updateTask(date, index, func(t *model.Task) { t.Text = text })
}

func (j *Journal) updateTask(date string, index int, apply func(*model.Task)) error {
	l, t, err := j.task(date, index)
	if err != nil {
		return err
	}
	apply(t)
	t.UpdatedAt = j.touch()
	l.UpdatedAt = t.UpdatedAt
	j.save(SaveEvent{Operation: "update", ItemType: "task", Key: date})
	return nil
}

// DeleteTask removes the task at index. Tasks after it shift down by one.
func (j *Journal) DeleteTask(date string, index int) error {
	l, _, err := j.task(date, index)
	if err != nil {
		return err
	}
	l.Tasks = slices.Delete(l.Tasks, index, index+1)
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "delete", ItemType: "task", Key: date})
	return nil
}

// AddNote appends a note to the log for date, creating the log if needed.
func (j *Journal) AddNote(date, note string) error {
	return j.appendEntry(date, "note", note, func(l *model.DailyLog, s string) { l.Notes = append(l.Notes, s) })
}

// AddEvent appends an event to the log for date, creating the log if needed.
func (j *Journal) AddEvent(date, event string) error {
	return j.appendEntry(date, "event", event, func(l *model.DailyLog, s string) { l.Events = append(l.Events, s) })
}

func (j *Journal) appendEntry(date, kind, text string, add func(*model.DailyLog, string)) error {
	if err := checkDate(date); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return invalidf("%s text is required", kind)
	}
	l, err := j.dailyLogOrCreate(date)
	if err != nil {
		return err
	}
	add(l, text)
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "add", ItemType: kind, Key: date})
	return nil
}
