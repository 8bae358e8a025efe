// Package query filters the daily-log collection by status, priority, tag and
// keyword. Every function is read-only and visits dates in ascending order.
package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"journal/internal/model"
	"journal/internal/validate"

	"github.com/gobwas/glob"
)

// TaskRef is a task together with the log it came from and its position in
// that log's task list.
type TaskRef struct {
	model.Task
	Date  string `json:"date"`
	Index int    `json:"index"`
}

func sortedDates(logs map[string]*model.DailyLog) []string {
	return slices.Sorted(maps.Keys(logs))
}

func tasksWhere(logs map[string]*model.DailyLog, match func(model.Task) bool) []TaskRef {
	out := []TaskRef{}
	for _, date := range sortedDates(logs) {
		for i, task := range logs[date].Tasks {
			if match(task) {
				out = append(out, TaskRef{Task: task.Clone(), Date: date, Index: i})
			}
		}
	}
	return out
}

func logsWhere(logs map[string]*model.DailyLog, match func(*model.DailyLog) bool) []model.DailyLog {
	out := []model.DailyLog{}
	for _, date := range sortedDates(logs) {
		log := logs[date]
		if match(log) {
			out = append(out, log.Clone())
		}
	}
	return out
}

// TasksByStatus returns every task whose status equals status.
func TasksByStatus(logs map[string]*model.DailyLog, status model.Status) []TaskRef {
	return tasksWhere(logs, func(t model.Task) bool { return t.Status == status })
}

// TasksByPriority returns every task whose priority equals priority.
func TasksByPriority(logs map[string]*model.DailyLog, priority model.Priority) []TaskRef {
	return tasksWhere(logs, func(t model.Task) bool { return t.Priority == priority })
}

// ByTag returns the logs carrying tag, compared case-insensitively.
func ByTag(logs map[string]*model.DailyLog, tag string) []model.DailyLog {
	tag = validate.NormalizeTag(tag)
	return logsWhere(logs, func(l *model.DailyLog) bool {
		return slices.Contains(l.Tags, tag)
	})
}

// ByTags returns the logs carrying all of tags. An empty tag list matches
// every log.
func ByTags(logs map[string]*model.DailyLog, tags []string) []model.DailyLog {
	want := validate.NormalizeTags(tags)
	return logsWhere(logs, func(l *model.DailyLog) bool {
		for _, tag := range want {
			if !slices.Contains(l.Tags, tag) {
				return false
			}
		}
		return true
	})
}

// Search returns the logs where any task text, note or event contains
// keyword, ignoring case.
func Search(logs map[string]*model.DailyLog, keyword string) []model.DailyLog {
	needle := strings.ToLower(keyword)
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}
	return logsWhere(logs, func(l *model.DailyLog) bool {
		for _, t := range l.Tasks {
			if contains(t.Text) {
				return true
			}
		}
		return slices.ContainsFunc(l.Notes, contains) || slices.ContainsFunc(l.Events, contains)
	})
}

// AllTags returns the sorted union of every log's tags.
func AllTags(logs map[string]*model.DailyLog) []string {
	set := map[string]struct{}{}
	for _, log := range logs {
		for _, tag := range log.Tags {
			set[tag] = struct{}{}
		}
	}
	tags := slices.Sorted(maps.Keys(set))
	if tags == nil {
		return []string{}
	}
	return tags
}

// ByTagPattern returns the logs carrying at least one tag that matches the
// glob pattern, e.g. "proj-*" or "{home,work}". The pattern is lowercased
// before compiling.
func ByTagPattern(logs map[string]*model.DailyLog, pattern string) ([]model.DailyLog, error) {
	g, err := glob.Compile(validate.NormalizeTag(pattern))
	if err != nil {
		return nil, fmt.Errorf("compile tag pattern %q: %w", pattern, err)
	}
	return logsWhere(logs, func(l *model.DailyLog) bool {
		return slices.ContainsFunc(l.Tags, g.Match)
	}), nil
}
