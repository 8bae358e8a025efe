package reports

import (
	"encoding/json"
	"testing"
	"time"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGenerator builds a journal pinned to Wednesday 2025-01-08 with two
// habits and two daily logs in the week of Sunday 2025-01-05.
func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	j := journal.New(storage.NewMemory(), journal.WithClock(func() time.Time { return now }))

	_, err := j.CreateHabit(journal.HabitInput{ID: "ex", Name: "Exercise"})
	require.NoError(t, err)
	_, err = j.CreateHabit(journal.HabitInput{ID: "read", Name: "Read", Frequency: model.FrequencyWeekly, Target: 2})
	require.NoError(t, err)
	for _, d := range []string{"2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"} {
		_, err := j.LogHabit("ex", d, journal.LogInput{})
		require.NoError(t, err)
	}
	for _, d := range []string{"2025-01-06", "2025-01-07", "2025-01-08"} {
		_, err := j.LogHabit("read", d, journal.LogInput{Note: "20 pages"})
		require.NoError(t, err)
	}

	_, err = j.AddDailyLog("2025-01-08", journal.DailyLogInput{
		Tasks: []journal.TaskInput{
			{Text: "a", Status: model.StatusCompleted},
			{Text: "b", Priority: model.PriorityHigh},
			{Text: "c", Status: model.StatusCancelled},
			{Text: "d", Status: model.StatusInProgress},
		},
		Notes:  []string{"long day"},
		Events: []string{"team lunch"},
		Tags:   []string{"work"},
	})
	require.NoError(t, err)
	_, err = j.AddDailyLog("2025-01-06", journal.DailyLogInput{
		Tasks: []journal.TaskInput{{Text: "x", Status: model.StatusCompleted}},
		Tags:  []string{"work", "home"},
	})
	require.NoError(t, err)

	return NewGenerator(j)
}

func TestGenerateDaily(t *testing.T) {
	g := newTestGenerator(t)

	r, err := g.GenerateDaily("2025-01-08")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-08", r.Date)
	assert.Equal(t, 4, r.Tasks.TotalCount)
	assert.Equal(t, 1, r.Tasks.CompletedCount)
	assert.Equal(t, 2, r.Tasks.PendingCount)
	assert.Len(t, r.Tasks.Cancelled, 1)
	assert.Equal(t, 33.3, r.Tasks.CompletionRate, "cancelled tasks are excluded")
	assert.Equal(t, []PriorityCount{
		{Priority: model.PriorityHigh, Count: 1},
		{Priority: model.PriorityMedium, Count: 3},
	}, r.Tasks.ByPriority)
	assert.Equal(t, []string{"team lunch"}, r.Events)

	require.Len(t, r.Habits.Habits, 2)
	ex := r.Habits.Habits[0]
	assert.Equal(t, "ex", ex.ID)
	assert.True(t, ex.Done)
	assert.Equal(t, 4, ex.Streak)
	assert.Equal(t, 4, ex.Longest)
	assert.Equal(t, "20 pages", r.Habits.Habits[1].Note)
	assert.Equal(t, 100.0, r.Habits.CompletionRate)
}

func TestGenerateDaily_NoLog(t *testing.T) {
	g := newTestGenerator(t)

	r, err := g.GenerateDaily("2025-01-09")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Tasks.TotalCount)
	assert.Equal(t, []string{}, r.Notes)
	assert.Equal(t, 0, r.Habits.CompletedCount)
	assert.Equal(t, 0, r.Habits.Habits[0].Streak)

	_, err = g.GenerateDaily("2025-13-01")
	assert.ErrorIs(t, err, journal.ErrInvalidFormat)
}

func TestGenerateWeekly(t *testing.T) {
	g := newTestGenerator(t)

	r, err := g.GenerateWeekly("2025-01-08")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-05", r.StartDate)
	assert.Equal(t, "2025-01-11", r.EndDate)

	assert.Equal(t, 5, r.Tasks.TotalAdded)
	assert.Equal(t, 2, r.Tasks.TotalCompleted)
	assert.Equal(t, 40.0, r.Tasks.CompletionRate)
	require.Len(t, r.Tasks.ByDay, 7)
	assert.Equal(t, "Sun", r.Tasks.ByDay[0].DayOfWeek)
	assert.Equal(t, DayTaskCount{Date: "2025-01-06", DayOfWeek: "Mon", Completed: 1, Added: 1}, r.Tasks.ByDay[1])
	assert.Equal(t, 4, r.Tasks.ByDay[3].Added)
	assert.Equal(t, []TagCount{{Tag: "work", Count: 2}, {Tag: "home", Count: 1}}, r.Tasks.TopTags)

	require.Len(t, r.Habits.Habits, 2)
	ex, read := r.Habits.Habits[0], r.Habits.Habits[1]
	assert.Equal(t, []bool{true, true, true, true, false, false, false}, ex.DaysCompleted)
	assert.Equal(t, 4, ex.CompletedCount)
	assert.Equal(t, 7, ex.ExpectedCount)
	assert.Equal(t, 57.1, ex.CompletionRate)
	assert.Equal(t, 2, read.CompletedCount, "weekly habit is capped at its target")
	assert.Equal(t, 2, read.ExpectedCount)
	assert.Equal(t, 100.0, read.CompletionRate)
	assert.Equal(t, 66.7, r.Habits.OverallRate)

	require.Len(t, r.DailyBreakdown, 7)
	assert.Equal(t, 2, r.DailyBreakdown[3].HabitsComplete)
	assert.Equal(t, 2, r.DailyBreakdown[3].HabitsTotal)
}

func TestGenerateWeekly_AlignsToSunday(t *testing.T) {
	g := newTestGenerator(t)
	for _, d := range []string{"2025-01-05", "2025-01-11"} {
		r, err := g.GenerateWeekly(d)
		require.NoError(t, err)
		assert.Equal(t, "2025-01-05", r.StartDate, d)
	}
}

func TestFormatDailyMarkdown(t *testing.T) {
	g := newTestGenerator(t)
	r, err := g.GenerateDaily("2025-01-08")
	require.NoError(t, err)

	md := FormatDailyMarkdown(r)
	for _, want := range []string{
		"# Daily report: 2025-01-08",
		"Tags: `work`",
		"- [x] a",
		"- [ ] b **(high)**",
		"- [~] d",
		"- [-] c",
		"> long day",
		"| Exercise | ✓ | 4 | 4 |",
	} {
		assert.Contains(t, md, want)
	}
}

func TestFormatWeeklyMarkdown(t *testing.T) {
	g := newTestGenerator(t)
	r, err := g.GenerateWeekly("2025-01-08")
	require.NoError(t, err)

	md := FormatWeeklyMarkdown(r)
	assert.Contains(t, md, "# Weekly report: 2025-01-05 to 2025-01-11")
	assert.Contains(t, md, "5 added, 2 completed (40.0%)")
	assert.Contains(t, md, "| Exercise | ● ● ● ● · · · | 4/7 | 57.1% | 0 |")
	assert.Contains(t, md, "`work` (2)")
}

func TestFormatJSON(t *testing.T) {
	g := newTestGenerator(t)
	r, err := g.GenerateWeekly("2025-01-08")
	require.NoError(t, err)

	data, err := FormatWeeklyJSON(r)
	require.NoError(t, err)

	var decoded WeeklyReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.StartDate, decoded.StartDate)
	assert.Equal(t, r.Habits.OverallRate, decoded.Habits.OverallRate)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"md": FormatMarkdown, "Markdown": FormatMarkdown, "": FormatMarkdown, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("# Title\n\nsome *text*", "notty", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}
