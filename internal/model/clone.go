package model

import "time"

// Clones are handed out by the journal so callers cannot mutate the aggregate
// behind its back.

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.UpdatedAt = cloneTime(t.UpdatedAt)
	return t
}

// Clone returns a deep copy of the log.
func (l *DailyLog) Clone() DailyLog {
	out := *l
	out.Tasks = make([]Task, len(l.Tasks))
	for i, t := range l.Tasks {
		out.Tasks[i] = t.Clone()
	}
	out.Notes = cloneStrings(l.Notes)
	out.Events = cloneStrings(l.Events)
	out.Tags = cloneStrings(l.Tags)
	out.UpdatedAt = cloneTime(l.UpdatedAt)
	return out
}

// Clone returns a deep copy of the log.
func (l *MonthlyLog) Clone() MonthlyLog {
	out := *l
	out.Goals = cloneStrings(l.Goals)
	out.Tasks = cloneStrings(l.Tasks)
	out.Highlights = cloneStrings(l.Highlights)
	out.UpdatedAt = cloneTime(l.UpdatedAt)
	return out
}

// Clone returns a deep copy of the log.
func (l *YearlyLog) Clone() YearlyLog {
	out := *l
	out.Goals = cloneStrings(l.Goals)
	out.Overview = cloneStrings(l.Overview)
	out.Highlights = cloneStrings(l.Highlights)
	out.UpdatedAt = cloneTime(l.UpdatedAt)
	return out
}

// Clone returns a deep copy of the habit.
func (h *Habit) Clone() Habit {
	out := *h
	out.Tags = cloneStrings(h.Tags)
	out.UpdatedAt = cloneTime(h.UpdatedAt)
	return out
}
