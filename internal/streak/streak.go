// Package streak computes habit streaks and completion statistics from one
// habit's log collection. Days are UTC calendar days of exactly 24 hours.
package streak

import (
	"maps"
	"slices"
	"sort"
	"time"

	"journal/internal/model"

	"github.com/shopspring/decimal"
)

// DateLayout is the key format of habit logs.
const DateLayout = "2006-01-02"

// Summary is the streak view of a habit's history.
type Summary struct {
	Current          int `json:"current"`
	Longest          int `json:"longest"`
	TotalCompletions int `json:"totalCompletions"`
}

// Stats is the completion view over a trailing window of days.
type Stats struct {
	Days             int     `json:"days"`
	CompletedDays    int     `json:"completedDays"`
	MissedDays       int     `json:"missedDays"`
	CompletionRate   float64 `json:"completionRate"`
	CurrentStreak    int     `json:"currentStreak"`
	LongestStreak    int     `json:"longestStreak"`
	TotalCompletions int     `json:"totalCompletions"`
}

// Day truncates t to its calendar date, expressed in UTC so that stepping by
// one day is always 24 hours.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats t's calendar date as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Current counts consecutive logged days ending today. It is 0 when today
// itself is not logged, whatever came before.
func Current(logs model.HabitLogs, today time.Time) int {
	streak := 0
	for day := Day(today); ; day = day.AddDate(0, 0, -1) {
		if _, ok := logs[DateKey(day)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// Longest returns the length of the longest run of calendar-consecutive
// logged dates. Keys that are not real calendar dates never join a run.
func Longest(logs model.HabitLogs) int {
	if len(logs) == 0 {
		return 0
	}

	dates := slices.Collect(maps.Keys(logs))
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if consecutive(dates[i], dates[i-1]) {
			run++
			continue
		}
		longest = max(longest, run)
		run = 1
	}
	return max(longest, run)
}

// consecutive reports whether later is exactly one calendar day after earlier.
func consecutive(earlier, later string) bool {
	a, err := time.Parse(DateLayout, earlier)
	if err != nil {
		return false
	}
	b, err := time.Parse(DateLayout, later)
	if err != nil {
		return false
	}
	return b.Sub(a) == 24*time.Hour
}

// Compute returns current and longest streak plus the number of completions.
func Compute(logs model.HabitLogs, today time.Time) Summary {
	return Summary{
		Current:          Current(logs, today),
		Longest:          Longest(logs),
		TotalCompletions: len(logs),
	}
}

// InRange returns the logs whose date key lies in [start, end], compared as
// strings. An empty bound is open on that side.
func InRange(logs model.HabitLogs, start, end string) model.HabitLogs {
	out := model.HabitLogs{}
	for date, log := range logs {
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		out[date] = log
	}
	return out
}

// Sorted returns the logs ordered by date ascending.
func Sorted(logs model.HabitLogs) []model.HabitLog {
	out := make([]model.HabitLog, 0, len(logs))
	for _, date := range slices.Sorted(maps.Keys(logs)) {
		out = append(out, logs[date])
	}
	return out
}

// Window computes completion statistics for the days-long window ending today.
// Streaks are taken over the whole history, not just the window. days must
// be at least 1.
func Window(logs model.HabitLogs, today time.Time, days int) Stats {
	end := Day(today)
	start := end.AddDate(0, 0, -(days - 1))
	completed := len(InRange(logs, DateKey(start), DateKey(end)))
	summary := Compute(logs, today)

	return Stats{
		Days:             days,
		CompletedDays:    completed,
		MissedDays:       days - completed,
		CompletionRate:   Rate(completed, days),
		CurrentStreak:    summary.Current,
		LongestStreak:    summary.Longest,
		TotalCompletions: summary.TotalCompletions,
	}
}

// Rate returns 100*done/total rounded to one decimal place, or 0 when total
// is not positive.
func Rate(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(done)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
	return pct.InexactFloat64()
}

// Week reports, oldest first, whether each of the 7 days ending today was
// logged.
func Week(logs model.HabitLogs, today time.Time) []bool {
	week := make([]bool, 7)
	end := Day(today)
	for i := 0; i < 7; i++ {
		_, week[i] = logs[DateKey(end.AddDate(0, 0, i-6))]
	}
	return week
}
