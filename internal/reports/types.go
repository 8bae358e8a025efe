// Package reports provides daily and weekly report generation for the journal.
// Reports aggregate tasks, notes and events from daily logs together with
// habit completions and streaks.
package reports

import (
	"time"

	"journal/internal/model"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        string       `json:"date"`
	Tasks       TaskSummary  `json:"tasks"`
	Notes       []string     `json:"notes"`
	Events      []string     `json:"events"`
	Tags        []string     `json:"tags"`
	Habits      HabitSummary `json:"habits"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// WeeklyReport contains aggregated data for a Sunday-to-Saturday week.
type WeeklyReport struct {
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	Tasks          WeeklyTasks    `json:"tasks"`
	Habits         WeeklyHabits   `json:"habits"`
	DailyBreakdown []DailySummary `json:"daily_breakdown"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// TaskSummary contains the tasks of one daily log grouped by status.
type TaskSummary struct {
	Completed      []model.Task    `json:"completed"`
	InProgress     []model.Task    `json:"in_progress"`
	Pending        []model.Task    `json:"pending"`
	Cancelled      []model.Task    `json:"cancelled"`
	CompletedCount int             `json:"completed_count"`
	PendingCount   int             `json:"pending_count"`
	TotalCount     int             `json:"total_count"`
	CompletionRate float64         `json:"completion_rate"`
	ByPriority     []PriorityCount `json:"by_priority"`
}

// PriorityCount represents a task count grouped by priority.
type PriorityCount struct {
	Priority model.Priority `json:"priority"`
	Count    int            `json:"count"`
}

// HabitSummary contains habit statistics for a single day.
type HabitSummary struct {
	Habits         []HabitStatus `json:"habits"`
	CompletedCount int           `json:"completed_count"`
	TotalCount     int           `json:"total_count"`
	CompletionRate float64       `json:"completion_rate"`
}

// HabitStatus represents a habit and its completion status on one day.
type HabitStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Done    bool   `json:"done"`
	Note    string `json:"note,omitempty"`
	Streak  int    `json:"streak"`
	Longest int    `json:"longest"`
}

// WeeklyTasks contains task statistics for a week.
type WeeklyTasks struct {
	TotalAdded     int            `json:"total_added"`
	TotalCompleted int            `json:"total_completed"`
	CompletionRate float64        `json:"completion_rate"`
	ByDay          []DayTaskCount `json:"by_day"`
	TopTags        []TagCount     `json:"top_tags"`
}

// DayTaskCount represents task counts for a specific day.
type DayTaskCount struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Completed int    `json:"completed"`
	Added     int    `json:"added"`
}

// TagCount is how many daily logs in the period carried a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// WeeklyHabits contains habit statistics for a week.
type WeeklyHabits struct {
	Habits         []WeeklyHabitStatus `json:"habits"`
	OverallRate    float64             `json:"overall_rate"`
	TotalCompleted int                 `json:"total_completed"`
	TotalExpected  int                 `json:"total_expected"`
}

// WeeklyHabitStatus represents a habit's completion over a week.
type WeeklyHabitStatus struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Frequency      model.HabitFrequency `json:"frequency"`
	DaysCompleted  []bool               `json:"days_completed"` // 7 bools, Sunday first
	CompletedCount int                  `json:"completed_count"`
	ExpectedCount  int                  `json:"expected_count"`
	CompletionRate float64              `json:"completion_rate"`
	Streak         int                  `json:"streak"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	TasksAdded     int    `json:"tasks_added"`
	TasksCompleted int    `json:"tasks_completed"`
	HabitsComplete int    `json:"habits_complete"`
	HabitsTotal    int    `json:"habits_total"`
}
