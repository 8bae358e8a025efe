package query

import (
	"testing"
	"time"

	"journal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 11, 13, 9, 0, 0, 0, time.UTC)

func task(text string, p model.Priority, s model.Status) model.Task {
	return model.Task{Text: text, Priority: p, Status: s, CreatedAt: created}
}

// fixture returns three logs inserted out of date order.
func fixture() map[string]*model.DailyLog {
	return map[string]*model.DailyLog{
		"2025-11-14": {
			Date: "2025-11-14",
			Tasks: []model.Task{
				task("Write report", model.PriorityHigh, model.StatusCompleted),
				task("Call plumber", model.PriorityLow, model.StatusTodo),
			},
			Notes:  []string{"Rainy day"},
			Events: []string{},
			Tags:   []string{"work", "home"},
		},
		"2025-11-12": {
			Date:   "2025-11-12",
			Tasks:  []model.Task{task("Buy milk", model.PriorityMedium, model.StatusCompleted)},
			Notes:  []string{},
			Events: []string{"Dentist at 3pm"},
			Tags:   []string{"home"},
		},
		"2025-11-13": {
			Date:   "2025-11-13",
			Tasks:  []model.Task{},
			Notes:  []string{},
			Events: []string{},
			Tags:   []string{},
		},
	}
}

func dates(logs []model.DailyLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Date
	}
	return out
}

func TestTasksByStatus(t *testing.T) {
	refs := TasksByStatus(fixture(), model.StatusCompleted)
	require.Len(t, refs, 2)

	assert.Equal(t, "2025-11-12", refs[0].Date)
	assert.Equal(t, 0, refs[0].Index)
	assert.Equal(t, "Buy milk", refs[0].Text)

	assert.Equal(t, "2025-11-14", refs[1].Date)
	assert.Equal(t, 0, refs[1].Index)
	assert.Equal(t, "Write report", refs[1].Text)
}

func TestTasksByPriority(t *testing.T) {
	refs := TasksByPriority(fixture(), model.PriorityLow)
	require.Len(t, refs, 1)
	assert.Equal(t, "Call plumber", refs[0].Text)
	assert.Equal(t, 1, refs[0].Index)

	assert.Empty(t, TasksByPriority(map[string]*model.DailyLog{}, model.PriorityHigh))
}

func TestByTag_CaseInsensitive(t *testing.T) {
	logs := fixture()
	for _, q := range []string{"home", "HOME", "Home"} {
		assert.Equal(t, []string{"2025-11-12", "2025-11-14"}, dates(ByTag(logs, q)), "query %q", q)
	}
	assert.Empty(t, ByTag(logs, "travel"))
}

func TestByTags(t *testing.T) {
	logs := fixture()

	assert.Equal(t, []string{"2025-11-14"}, dates(ByTags(logs, []string{"Work", "home"})))
	assert.Equal(t, []string{"2025-11-12", "2025-11-13", "2025-11-14"}, dates(ByTags(logs, nil)))
	assert.Empty(t, ByTags(logs, []string{"work", "travel"}))
}

func TestByTags_IsIntersectionOfByTag(t *testing.T) {
	logs := fixture()
	a := dates(ByTag(logs, "work"))
	b := dates(ByTag(logs, "home"))

	var both []string
	for _, d := range a {
		for _, e := range b {
			if d == e {
				both = append(both, d)
			}
		}
	}
	assert.Equal(t, both, dates(ByTags(logs, []string{"work", "home"})))
}

func TestSearch(t *testing.T) {
	logs := fixture()

	tests := []struct {
		keyword string
		want    []string
	}{
		{"MILK", []string{"2025-11-12"}},
		{"rainy", []string{"2025-11-14"}},
		{"dentist", []string{"2025-11-12"}},
		{"nothing like this", []string{}},
		// An empty keyword matches any log with at least one entry.
		{"", []string{"2025-11-12", "2025-11-14"}},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, dates(Search(logs, tt.keyword)))
		})
	}
}

func TestAllTags(t *testing.T) {
	assert.Equal(t, []string{"home", "work"}, AllTags(fixture()))
	assert.Equal(t, []string{}, AllTags(nil))
}

func TestResultsAreCopies(t *testing.T) {
	logs := fixture()
	got := ByTag(logs, "work")
	require.Len(t, got, 1)

	got[0].Tags[0] = "mutated"
	got[0].Tasks[0].Text = "mutated"

	assert.Equal(t, "work", logs["2025-11-14"].Tags[0])
	assert.Equal(t, "Write report", logs["2025-11-14"].Tasks[0].Text)
}

func TestByTagPattern(t *testing.T) {
	logs := fixture()
	logs["2025-11-15"] = &model.DailyLog{Date: "2025-11-15", Tags: []string{"project-alpha"}}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"project-*", []string{"2025-11-15"}},
		{"PROJECT-*", []string{"2025-11-15"}},
		{"{home,work}", []string{"2025-11-12", "2025-11-14"}},
		{"w?rk", []string{"2025-11-14"}},
		{"*", []string{"2025-11-12", "2025-11-14", "2025-11-15"}},
		{"gym", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := ByTagPattern(logs, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dates(got))
		})
	}

	_, err := ByTagPattern(logs, "[unclosed")
	assert.Error(t, err)
}
