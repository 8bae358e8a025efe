package journal

import (
	"fmt"
	"slices"

	"journal/internal/model"
	"journal/internal/query"
	"journal/internal/validate"
)

// AddTags adds tags to the log for date. Tags are lowercased and duplicates
// are dropped. It returns the log's resulting tag list.
func (j *Journal) AddTags(date string, tags ...string) ([]string, error) {
	l, err := j.dailyLog(date)
	if err != nil {
		return nil, err
	}
	l.Tags = validate.NormalizeTags(append(slices.Clone(l.Tags), tags...))
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "tag", ItemType: "daily", Key: date})
	return slices.Clone(l.Tags), nil
}

// RemoveTags lowercases tags and removes them from the log for date. Stored
// tags are compared as they are, so a mixed-case tag that arrived through an
// import is only removed by an exact lowercase match. Tags not present are
// ignored.
func (j *Journal) RemoveTags(date string, tags ...string) ([]string, error) {
	l, err := j.dailyLog(date)
	if err != nil {
		return nil, err
	}
	drop := validate.NormalizeTags(tags)
	l.Tags = slices.DeleteFunc(slices.Clone(l.Tags), func(t string) bool {
		return slices.Contains(drop, t)
	})
	l.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "untag", ItemType: "daily", Key: date})
	return slices.Clone(l.Tags), nil
}

// GetTasksByStatus returns every task with the given status across all logs.
func (j *Journal) GetTasksByStatus(status model.Status) ([]query.TaskRef, error) {
	if !validate.IsValidStatus(status) {
		return nil, invalidf("unknown status %q", status)
	}
	return query.TasksByStatus(j.state.DailyLogs, status), nil
}

// GetTasksByPriority returns every task with the given priority.
func (j *Journal) GetTasksByPriority(priority model.Priority) ([]query.TaskRef, error) {
	if !validate.IsValidPriority(priority) {
		return nil, invalidf("unknown priority %q", priority)
	}
	return query.TasksByPriority(j.state.DailyLogs, priority), nil
}

// GetLogsByTag returns the logs carrying tag.
func (j *Journal) GetLogsByTag(tag string) []model.DailyLog {
	return query.ByTag(j.state.DailyLogs, tag)
}

// GetLogsByTags returns the logs carrying every one of tags.
func (j *Journal) GetLogsByTags(tags []string) []model.DailyLog {
	return query.ByTags(j.state.DailyLogs, tags)
}

// SearchLogs returns the logs whose tasks, notes or events contain keyword.
func (j *Journal) SearchLogs(keyword string) []model.DailyLog {
	return query.Search(j.state.DailyLogs, keyword)
}

// GetAllTags returns every tag in use, sorted.
func (j *Journal) GetAllTags() []string {
	return query.AllTags(j.state.DailyLogs)
}

// GetLogsByTagPattern returns the logs with a tag matching the glob pattern.
func (j *Journal) GetLogsByTagPattern(pattern string) ([]model.DailyLog, error) {
	logs, err := query.ByTagPattern(j.state.DailyLogs, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return logs, nil
}
