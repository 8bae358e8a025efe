package ui

import (
	"journal/internal/model"
)

// Message types returned by the commands in commands.go. Every journal
// operation reports back through one of these so the event loop never
// touches storage directly.

// =============================================================================
// Day Messages
// =============================================================================

// dayLoadedMsg carries the daily log of one date. A date without a log
// arrives with an empty log and exists=false.
type dayLoadedMsg struct {
	date   string
	log    model.DailyLog
	exists bool
	err    error
}

// taskAddedMsg is sent when a task has been appended to a daily log.
type taskAddedMsg struct {
	date  string
	index int
	err   error
}

// taskUpdatedMsg is sent after a status or priority change.
type taskUpdatedMsg struct {
	date  string
	index int
	desc  string
	err   error
}

// taskDeletedMsg is sent when a task is removed.
type taskDeletedMsg struct {
	date string
	text string
	err  error
}

// =============================================================================
// Habit Messages
// =============================================================================

// habitsLoadedMsg carries the habit rows as of the journal's today.
type habitsLoadedMsg struct {
	rows []habitRow
	err  error
}

// habitToggledMsg is sent when a habit's completion for a date flips.
type habitToggledMsg struct {
	id   string
	name string
	date string
	done bool
	err  error
}
