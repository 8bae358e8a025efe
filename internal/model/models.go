// Package model defines the journal entities and the aggregate that owns them.
package model

import "time"

// Priority represents task priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status represents where a task is in its lifecycle
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// HabitFrequency represents how often a habit should be done.
// It is stored but not enforced by the streak engine.
type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
)

// Task is a single entry in a daily log. Tasks have no identity of their own:
// they are addressed by position inside DailyLog.Tasks, and an index stays
// valid only until that slice is mutated.
type Task struct {
	Text      string     `json:"text"`
	Priority  Priority   `json:"priority"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DailyLog holds everything recorded for one YYYY-MM-DD date.
type DailyLog struct {
	Date      string     `json:"date"`
	Tasks     []Task     `json:"tasks"`
	Notes     []string   `json:"notes"`
	Events    []string   `json:"events"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// MonthlyLog is keyed by YYYY-MM.
type MonthlyLog struct {
	Month      string     `json:"month"`
	Goals      []string   `json:"goals"`
	Tasks      []string   `json:"tasks"`
	Highlights []string   `json:"highlights"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// YearlyLog is keyed by YYYY.
type YearlyLog struct {
	Year       string     `json:"year"`
	Goals      []string   `json:"goals"`
	Overview   []string   `json:"overview"`
	Highlights []string   `json:"highlights"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Habit represents a trackable habit
type Habit struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Frequency   HabitFrequency `json:"frequency"`
	Target      int            `json:"target"`
	Tags        []string       `json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

// HabitLog represents a single habit completion. Its presence means the habit
// was done on Date; there is no "not completed" entry.
type HabitLog struct {
	Date      string    `json:"date"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	Note      string    `json:"note"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// HabitLogs maps a YYYY-MM-DD date to the completion logged for it.
type HabitLogs map[string]HabitLog

// State is the aggregate root persisted as one snapshot.
type State struct {
	DailyLogs   map[string]*DailyLog   `json:"dailyLogs"`
	MonthlyLogs map[string]*MonthlyLog `json:"monthlyLogs"`
	YearlyLogs  map[string]*YearlyLog  `json:"yearlyLogs"`
	Habits      map[string]*Habit      `json:"habits"`
	HabitLogs   map[string]HabitLogs   `json:"habitLogs"`
}

// NewState returns an empty aggregate with every collection allocated.
func NewState() *State {
	return &State{
		DailyLogs:   map[string]*DailyLog{},
		MonthlyLogs: map[string]*MonthlyLog{},
		YearlyLogs:  map[string]*YearlyLog{},
		Habits:      map[string]*Habit{},
		HabitLogs:   map[string]HabitLogs{},
	}
}

// Normalize allocates any collection left nil, e.g. by a partial JSON document.
func (s *State) Normalize() {
	if s.DailyLogs == nil {
		s.DailyLogs = map[string]*DailyLog{}
	}
	if s.MonthlyLogs == nil {
		s.MonthlyLogs = map[string]*MonthlyLog{}
	}
	if s.YearlyLogs == nil {
		s.YearlyLogs = map[string]*YearlyLog{}
	}
	if s.Habits == nil {
		s.Habits = map[string]*Habit{}
	}
	if s.HabitLogs == nil {
		s.HabitLogs = map[string]HabitLogs{}
	}
	for date, l := range s.DailyLogs {
		if l == nil {
			delete(s.DailyLogs, date)
			continue
		}
		l.Date = date
		l.Tasks = nonNil(l.Tasks)
		l.Notes = nonNil(l.Notes)
		l.Events = nonNil(l.Events)
		l.Tags = nonNil(l.Tags)
	}
	for month, l := range s.MonthlyLogs {
		if l == nil {
			delete(s.MonthlyLogs, month)
			continue
		}
		l.Month = month
		l.Goals = nonNil(l.Goals)
		l.Tasks = nonNil(l.Tasks)
		l.Highlights = nonNil(l.Highlights)
	}
	for year, l := range s.YearlyLogs {
		if l == nil {
			delete(s.YearlyLogs, year)
			continue
		}
		l.Year = year
		l.Goals = nonNil(l.Goals)
		l.Overview = nonNil(l.Overview)
		l.Highlights = nonNil(l.Highlights)
	}
	for id, h := range s.Habits {
		if h == nil {
			delete(s.Habits, id)
			continue
		}
		h.ID = id
		h.Tags = nonNil(h.Tags)
		if s.HabitLogs[id] == nil {
			s.HabitLogs[id] = HabitLogs{}
		}
	}
	for _, logs := range s.HabitLogs {
		for date, log := range logs {
			log.Date = date
			logs[date] = log
		}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
