package reports

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/streak"
	"journal/internal/validate"
)

// Generator creates reports from journal data.
type Generator struct {
	j *journal.Journal
}

// NewGenerator creates a new report generator.
func NewGenerator(j *journal.Journal) *Generator {
	return &Generator{j: j}
}

func parseDate(date string) (time.Time, error) {
	if !validate.IsValidDate(date) {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", journal.ErrInvalidFormat, date)
	}
	return time.Parse(streak.DateLayout, date)
}

// GenerateDaily generates a report for a specific date. A date without a
// daily log still reports habits.
func (g *Generator) GenerateDaily(date string) (*DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	log, err := g.j.GetDailyLog(date)
	if err != nil && !errors.Is(err, journal.ErrNotFound) {
		return nil, err
	}

	return &DailyReport{
		Date:        date,
		Tasks:       taskSummary(log.Tasks),
		Notes:       nonNil(log.Notes),
		Events:      nonNil(log.Events),
		Tags:        nonNil(log.Tags),
		Habits:      g.habitSummary(day),
		GeneratedAt: g.j.Now(),
	}, nil
}

// GenerateWeekly generates a report for the week containing date, aligned
// to Sunday.
func (g *Generator) GenerateWeekly(date string) (*WeeklyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start := startOfWeekSunday(day)
	end := start.AddDate(0, 0, 6)

	return &WeeklyReport{
		StartDate:      streak.DateKey(start),
		EndDate:        streak.DateKey(end),
		Tasks:          g.weeklyTasks(start, end),
		Habits:         g.weeklyHabits(start, end),
		DailyBreakdown: g.dailyBreakdown(start, 7),
		GeneratedAt:    g.j.Now(),
	}, nil
}

// taskSummary groups tasks by status and counts them by priority.
func taskSummary(tasks []model.Task) TaskSummary {
	s := TaskSummary{
		Completed:  []model.Task{},
		InProgress: []model.Task{},
		Pending:    []model.Task{},
		Cancelled:  []model.Task{},
		TotalCount: len(tasks),
	}
	priorityCounts := make(map[model.Priority]int)

	for _, task := range tasks {
		switch task.Status {
		case model.StatusCompleted:
			s.Completed = append(s.Completed, task)
		case model.StatusInProgress:
			s.InProgress = append(s.InProgress, task)
		case model.StatusCancelled:
			s.Cancelled = append(s.Cancelled, task)
		default:
			s.Pending = append(s.Pending, task)
		}
		priorityCounts[task.Priority]++
	}
	s.CompletedCount = len(s.Completed)
	s.PendingCount = len(s.Pending) + len(s.InProgress)
	// Cancelled tasks are out of the running and do not count against the rate.
	s.CompletionRate = streak.Rate(s.CompletedCount, s.TotalCount-len(s.Cancelled))

	s.ByPriority = []PriorityCount{}
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		if n := priorityCounts[p]; n > 0 {
			s.ByPriority = append(s.ByPriority, PriorityCount{Priority: p, Count: n})
		}
	}
	return s
}

// habitLogs returns the full log collection of habit id keyed by date.
func (g *Generator) habitLogs(id string) model.HabitLogs {
	entries, err := g.j.GetHabitLogs(id, "", "")
	if err != nil {
		return model.HabitLogs{}
	}
	logs := make(model.HabitLogs, len(entries))
	for _, e := range entries {
		logs[e.Date] = e
	}
	return logs
}

// habitSummary returns habit statistics for a specific date. Streaks are
// measured as of that date.
func (g *Generator) habitSummary(day time.Time) HabitSummary {
	dateStr := streak.DateKey(day)
	statuses := []HabitStatus{}
	completedCount := 0

	for _, habit := range g.j.ListHabits() {
		logs := g.habitLogs(habit.ID)
		entry, done := logs[dateStr]
		if done {
			completedCount++
		}

		statuses = append(statuses, HabitStatus{
			ID:      habit.ID,
			Name:    habit.Name,
			Done:    done,
			Note:    entry.Note,
			Streak:  streak.Current(logs, day),
			Longest: streak.Longest(logs),
		})
	}

	return HabitSummary{
		Habits:         statuses,
		CompletedCount: completedCount,
		TotalCount:     len(statuses),
		CompletionRate: streak.Rate(completedCount, len(statuses)),
	}
}

// weeklyTasks returns task statistics for the days in [start, end].
func (g *Generator) weeklyTasks(start, end time.Time) WeeklyTasks {
	byDay := make([]DayTaskCount, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		byDay[i] = DayTaskCount{
			Date:      streak.DateKey(day),
			DayOfWeek: day.Format("Mon"),
		}
	}

	tagCounts := make(map[string]int)
	totalAdded, totalCompleted := 0, 0

	for _, log := range g.j.DailyLogsInRange(streak.DateKey(start), streak.DateKey(end)) {
		idx := dayIndex(log.Date, start)
		if idx < 0 || idx >= 7 {
			continue
		}
		for _, task := range log.Tasks {
			byDay[idx].Added++
			totalAdded++
			if task.Status == model.StatusCompleted {
				byDay[idx].Completed++
				totalCompleted++
			}
		}
		for _, tag := range log.Tags {
			tagCounts[tag]++
		}
	}

	topTags := make([]TagCount, 0, len(tagCounts))
	for _, tag := range slices.Sorted(maps.Keys(tagCounts)) {
		topTags = append(topTags, TagCount{Tag: tag, Count: tagCounts[tag]})
	}
	sort.SliceStable(topTags, func(i, j int) bool {
		return topTags[i].Count > topTags[j].Count
	})

	return WeeklyTasks{
		TotalAdded:     totalAdded,
		TotalCompleted: totalCompleted,
		CompletionRate: streak.Rate(totalCompleted, totalAdded),
		ByDay:          byDay,
		TopTags:        topTags,
	}
}

// weeklyHabits returns habit statistics for the week starting at start.
func (g *Generator) weeklyHabits(start, end time.Time) WeeklyHabits {
	statuses := []WeeklyHabitStatus{}
	totalCompleted := 0
	totalExpected := 0

	for _, habit := range g.j.ListHabits() {
		logs := g.habitLogs(habit.ID)
		daysCompleted := make([]bool, 7)
		for i := 0; i < 7; i++ {
			_, daysCompleted[i] = logs[streak.DateKey(start.AddDate(0, 0, i))]
		}

		expected := expectedCountForWeek(habit)
		completed := completedCountForWeek(habit, daysCompleted)
		totalExpected += expected
		totalCompleted += completed

		statuses = append(statuses, WeeklyHabitStatus{
			ID:             habit.ID,
			Name:           habit.Name,
			Frequency:      habit.Frequency,
			DaysCompleted:  daysCompleted,
			CompletedCount: completed,
			ExpectedCount:  expected,
			CompletionRate: streak.Rate(completed, expected),
			Streak:         streak.Current(logs, end),
		})
	}

	return WeeklyHabits{
		Habits:         statuses,
		OverallRate:    streak.Rate(totalCompleted, totalExpected),
		TotalCompleted: totalCompleted,
		TotalExpected:  totalExpected,
	}
}

// dailyBreakdown returns a summary for each of days days from start.
func (g *Generator) dailyBreakdown(start time.Time, days int) []DailySummary {
	breakdown := make([]DailySummary, 0, days)

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		date := streak.DateKey(day)

		log, _ := g.j.GetDailyLog(date)
		tasks := taskSummary(log.Tasks)
		habits := g.habitSummary(day)

		breakdown = append(breakdown, DailySummary{
			Date:           date,
			DayOfWeek:      day.Format("Mon"),
			TasksAdded:     tasks.TotalCount,
			TasksCompleted: tasks.CompletedCount,
			HabitsComplete: habits.CompletedCount,
			HabitsTotal:    habits.TotalCount,
		})
	}

	return breakdown
}

// Helper functions

// startOfWeekSunday returns the Sunday on or before day.
func startOfWeekSunday(day time.Time) time.Time {
	day = streak.Day(day)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// dayIndex returns how many days date is after start, or -1 if date does
// not parse.
func dayIndex(date string, start time.Time) int {
	d, err := time.Parse(streak.DateLayout, date)
	if err != nil {
		return -1
	}
	return int(d.Sub(streak.Day(start)).Hours() / 24)
}

// expectedCountForWeek is how many completions a habit should collect in a
// week. Weekly habits expect Target completions; monthly habits at most one.
func expectedCountForWeek(h model.Habit) int {
	switch h.Frequency {
	case model.FrequencyWeekly:
		return min(max(h.Target, 1), 7)
	case model.FrequencyMonthly:
		return 1
	default:
		return 7
	}
}

func completedCountForWeek(h model.Habit, daysCompleted []bool) int {
	count := 0
	for _, done := range daysCompleted {
		if done {
			count++
		}
	}
	return min(count, expectedCountForWeek(h))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
