package journal

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"journal/internal/model"
	"journal/internal/streak"
	"journal/internal/validate"
)

// HabitInput describes a habit to create. Frequency defaults to daily and
// Target to 1.
type HabitInput struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Frequency   model.HabitFrequency `json:"frequency"`
	Target      int                  `json:"target"`
	Tags        []string             `json:"tags"`
}

// HabitPatch updates the fields that are non-nil.
type HabitPatch struct {
	Name        *string
	Description *string
	Frequency   *model.HabitFrequency
	Target      *int
	Tags        []string
}

// LogInput is the optional payload of a habit completion. Value defaults
// to 1.
type LogInput struct {
	Note  string
	Value *float64
}

func (j *Journal) habit(id string) (*model.Habit, error) {
	h, ok := j.state.Habits[id]
	if !ok {
		return nil, notFoundf("habit %q", id)
	}
	return h, nil
}

// CreateHabit registers a new habit with an empty log collection.
func (j *Journal) CreateHabit(in HabitInput) (model.Habit, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return model.Habit{}, invalidf("habit id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Habit{}, invalidf("habit name is required")
	}
	freq := in.Frequency
	if freq == "" {
		freq = model.FrequencyDaily
	}
	if !validate.IsValidFrequency(freq) {
		return model.Habit{}, invalidf("unknown frequency %q", freq)
	}
	target := in.Target
	if target == 0 {
		target = 1
	}
	if target < 0 {
		return model.Habit{}, invalidf("target must be positive, got %d", target)
	}
	if _, exists := j.state.Habits[id]; exists {
		return model.Habit{}, fmt.Errorf("%w: habit %q", ErrAlreadyExists, id)
	}

	h := &model.Habit{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Frequency:   freq,
		Target:      target,
		Tags:        validate.NormalizeTags(in.Tags),
		CreatedAt:   j.now(),
	}
	j.state.Habits[id] = h
	j.state.HabitLogs[id] = model.HabitLogs{}
	j.save(SaveEvent{Operation: "add", ItemType: "habit", Key: id})
	return h.Clone(), nil
}

// GetHabit returns the habit registered under id.
func (j *Journal) GetHabit(id string) (model.Habit, error) {
	h, err := j.habit(id)
	if err != nil {
		return model.Habit{}, err
	}
	return h.Clone(), nil
}

// ListHabits returns every habit ordered by creation time, then id.
func (j *Journal) ListHabits() []model.Habit {
	out := make([]model.Habit, 0, len(j.state.Habits))
	for _, id := range slices.Sorted(maps.Keys(j.state.Habits)) {
		out = append(out, j.state.Habits[id].Clone())
	}
	slices.SortStableFunc(out, func(a, b model.Habit) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// UpdateHabit applies patch to the habit registered under id.
func (j *Journal) UpdateHabit(id string, patch HabitPatch) (model.Habit, error) {
	h, err := j.habit(id)
	if err != nil {
		return model.Habit{}, err
	}
	var name string
	if patch.Name != nil {
		if name = strings.TrimSpace(*patch.Name); name == "" {
			return model.Habit{}, invalidf("habit name is required")
		}
	}
	if patch.Frequency != nil && !validate.IsValidFrequency(*patch.Frequency) {
		return model.Habit{}, invalidf("unknown frequency %q", *patch.Frequency)
	}
	if patch.Target != nil && *patch.Target < 1 {
		return model.Habit{}, invalidf("target must be positive, got %d", *patch.Target)
	}

	if patch.Name != nil {
		h.Name = name
	}
	if patch.Description != nil {
		h.Description = *patch.Description
	}
	if patch.Frequency != nil {
		h.Frequency = *patch.Frequency
	}
	if patch.Target != nil {
		h.Target = *patch.Target
	}
	if patch.Tags != nil {
		h.Tags = validate.NormalizeTags(patch.Tags)
	}
	h.UpdatedAt = j.touch()
	j.save(SaveEvent{Operation: "update", ItemType: "habit", Key: id})
	return h.Clone(), nil
}

// DeleteHabit removes the habit and all of its logs, reporting whether the
// habit existed.
func (j *Journal) DeleteHabit(id string) bool {
	if _, ok := j.state.Habits[id]; !ok {
		return false
	}
	delete(j.state.Habits, id)
	delete(j.state.HabitLogs, id)
	j.save(SaveEvent{Operation: "delete", ItemType: "habit", Key: id})
	return true
}

// LogHabit records a completion of habit id on date. Logging the same date
// again replaces the earlier entry.
func (j *Journal) LogHabit(id, date string, in LogInput) (model.HabitLog, error) {
	if _, err := j.habit(id); err != nil {
		return model.HabitLog{}, err
	}
	if err := checkDate(date); err != nil {
		return model.HabitLog{}, err
	}
	value := 1.0
	if in.Value != nil {
		value = *in.Value
	}
	entry := model.HabitLog{
		Date:      date,
		Completed: true,
		Note:      in.Note,
		Value:     value,
		Timestamp: j.now(),
	}
	logs := j.state.HabitLogs[id]
	if logs == nil {
		logs = model.HabitLogs{}
		j.state.HabitLogs[id] = logs
	}
	logs[date] = entry
	j.save(SaveEvent{Operation: "log", ItemType: "habit", Key: id})
	return entry, nil
}

// UnlogHabit removes the completion of habit id on date and reports whether
// there was one.
func (j *Journal) UnlogHabit(id, date string) (bool, error) {
	if _, err := j.habit(id); err != nil {
		return false, err
	}
	if err := checkDate(date); err != nil {
		return false, err
	}
	logs := j.state.HabitLogs[id]
	if _, ok := logs[date]; !ok {
		return false, nil
	}
	delete(logs, date)
	j.save(SaveEvent{Operation: "unlog", ItemType: "habit", Key: id})
	return true, nil
}

// ToggleHabit logs habit id on date if it is not logged, and unlogs it
// otherwise. It returns whether the habit is now logged for date.
func (j *Journal) ToggleHabit(id, date string) (bool, error) {
	if j.IsHabitDone(id, date) {
		_, err := j.UnlogHabit(id, date)
		return false, err
	}
	if _, err := j.LogHabit(id, date, LogInput{}); err != nil {
		return false, err
	}
	return true, nil
}

// IsHabitDone reports whether habit id has a completion on date.
func (j *Journal) IsHabitDone(id, date string) bool {
	_, ok := j.state.HabitLogs[id][date]
	return ok
}

// GetHabitLogs returns the completions of habit id dated within [start, end],
// ordered by date. An empty bound is open on that side.
func (j *Journal) GetHabitLogs(id, start, end string) ([]model.HabitLog, error) {
	if _, err := j.habit(id); err != nil {
		return nil, err
	}
	return streak.Sorted(streak.InRange(j.state.HabitLogs[id], start, end)), nil
}

// GetHabitStreak returns the current and longest streak of habit id, with
// "today" taken from the journal clock.
func (j *Journal) GetHabitStreak(id string) (streak.Summary, error) {
	if _, err := j.habit(id); err != nil {
		return streak.Summary{}, err
	}
	return streak.Compute(j.state.HabitLogs[id], j.now()), nil
}

// GetHabitStats returns completion statistics for habit id over the days-long
// window ending today.
func (j *Journal) GetHabitStats(id string, days int) (streak.Stats, error) {
	if _, err := j.habit(id); err != nil {
		return streak.Stats{}, err
	}
	if days < 1 {
		return streak.Stats{}, invalidf("days must be at least 1, got %d", days)
	}
	return streak.Window(j.state.HabitLogs[id], j.now(), days), nil
}

// GetHabitWeek reports, oldest first, whether habit id was logged on each of
// the 7 days ending today.
func (j *Journal) GetHabitWeek(id string) []bool {
	return streak.Week(j.state.HabitLogs[id], j.now())
}
