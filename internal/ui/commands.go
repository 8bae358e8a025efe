package ui

import (
	"fmt"
	"sync"
	"time"

	"journal/internal/journal"
	"journal/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Store serializes access to a journal. Bubble Tea runs commands on their
// own goroutines and a Journal is not safe for concurrent use.
type Store struct {
	mu sync.Mutex
	j  *journal.Journal
}

// NewStore wraps j for use by the TUI.
func NewStore(j *journal.Journal) *Store {
	return &Store{j: j}
}

// Do runs fn while holding the journal lock.
func (s *Store) Do(fn func(j *journal.Journal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.j)
}

// Now returns the current time by the journal clock.
func (s *Store) Now() time.Time {
	var now time.Time
	_ = s.Do(func(j *journal.Journal) error {
		now = j.Now()
		return nil
	})
	return now
}

// Today returns the journal's current date.
func (s *Store) Today() string {
	var today string
	_ = s.Do(func(j *journal.Journal) error {
		today = j.Today()
		return nil
	})
	return today
}

// =============================================================================
// Day Commands
// =============================================================================

// loadDayCmd returns a command that loads the daily log of date.
func loadDayCmd(s *Store, date string) tea.Cmd {
	return func() tea.Msg {
		msg := dayLoadedMsg{date: date}
		_ = s.Do(func(j *journal.Journal) error {
			msg.exists = j.HasDailyLog(date)
			if msg.exists {
				msg.log, msg.err = j.GetDailyLog(date)
			}
			return nil
		})
		return msg
	}
}

// addTaskCmd returns a command that appends a task to date's log, creating
// the log if needed.
func addTaskCmd(s *Store, date, text string) tea.Cmd {
	return func() tea.Msg {
		var index int
		err := s.Do(func(j *journal.Journal) (err error) {
			index, err = j.AddTask(date, journal.TaskInput{Text: text})
			return err
		})
		return taskAddedMsg{date: date, index: index, err: err}
	}
}

// setStatusCmd returns a command that moves a task to status.
func setStatusCmd(s *Store, date string, index int, status model.Status) tea.Cmd {
	return func() tea.Msg {
		err := s.Do(func(j *journal.Journal) error {
			return j.UpdateTaskStatus(date, index, status)
		})
		return taskUpdatedMsg{date: date, index: index, desc: string(status), err: err}
	}
}

// setPriorityCmd returns a command that changes a task's priority.
func setPriorityCmd(s *Store, date string, index int, priority model.Priority) tea.Cmd {
	return func() tea.Msg {
		err := s.Do(func(j *journal.Journal) error {
			return j.UpdateTaskPriority(date, index, priority)
		})
		return taskUpdatedMsg{date: date, index: index, desc: string(priority) + " priority", err: err}
	}
}

// deleteTaskCmd returns a command that removes a task.
func deleteTaskCmd(s *Store, date string, index int, text string) tea.Cmd {
	return func() tea.Msg {
		err := s.Do(func(j *journal.Journal) error {
			return j.DeleteTask(date, index)
		})
		return taskDeletedMsg{date: date, text: text, err: err}
	}
}

// =============================================================================
// Habit Commands
// =============================================================================

// loadHabitsCmd returns a command that builds one row per habit. Rates cover
// the statsDays days ending today.
func loadHabitsCmd(s *Store, statsDays int) tea.Cmd {
	return func() tea.Msg {
		var rows []habitRow
		err := s.Do(func(j *journal.Journal) error {
			var err error
			rows, err = buildHabitRows(j, statsDays)
			return err
		})
		return habitsLoadedMsg{rows: rows, err: err}
	}
}

func buildHabitRows(j *journal.Journal, statsDays int) ([]habitRow, error) {
	today := j.Today()
	habits := j.ListHabits()
	rows := make([]habitRow, 0, len(habits))
	for _, h := range habits {
		summary, err := j.GetHabitStreak(h.ID)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		stats, err := j.GetHabitStats(h.ID, statsDays)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		rows = append(rows, habitRow{
			habit:   h,
			week:    j.GetHabitWeek(h.ID),
			current: summary.Current,
			longest: summary.Longest,
			rate:    stats.CompletionRate,
			done:    j.IsHabitDone(h.ID, today),
		})
	}
	return rows, nil
}

// toggleHabitCmd returns a command that flips habit id's completion on date.
func toggleHabitCmd(s *Store, id, name, date string) tea.Cmd {
	return func() tea.Msg {
		var done bool
		err := s.Do(func(j *journal.Journal) (err error) {
			done, err = j.ToggleHabit(id, date)
			return err
		})
		return habitToggledMsg{id: id, name: name, date: date, done: done, err: err}
	}
}

// =============================================================================
// Cycles
// =============================================================================

// nextStatus is the status a task moves to when cycled. Cancelled tasks
// reopen as todo.
func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusCompleted
	default:
		return model.StatusTodo
	}
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}
