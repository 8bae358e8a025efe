// Package journal is the single entry point for reading and mutating the
// bullet journal. A Journal owns the in-memory aggregate, validates every
// mutation before applying it and writes the whole aggregate back to its
// storage backend after each successful change.
//
// A Journal is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"journal/internal/model"
	"journal/internal/storage"
	"journal/internal/streak"
)

// SaveEvent describes the mutation that triggered a save.
type SaveEvent struct {
	Operation string // "add", "update", "delete", "log", "import", ...
	ItemType  string // "daily", "task", "monthly", "yearly", "habit", "data"
	Key       string // date, month, year or habit id
	Err       error  // non-nil when the backend rejected the write
}

// Journal is the facade over the journal aggregate.
type Journal struct {
	backend storage.Backend
	key     string
	now     func() time.Time
	log     *slog.Logger
	onSave  func(SaveEvent)

	state *model.State
}

// Option configures a Journal.
type Option func(*Journal)

// WithStorageKey overrides the key the snapshot is stored under.
func WithStorageKey(key string) Option {
	return func(j *Journal) {
		if key != "" {
			j.key = key
		}
	}
}

// WithClock sets the time source used for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.log = l
		}
	}
}

// New creates a Journal over backend and loads any stored snapshot. A missing
// or unreadable snapshot is not an error: the journal starts empty.
func New(backend storage.Backend, opts ...Option) *Journal {
	j := &Journal{
		backend: backend,
		key:     storage.DefaultKey,
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.load()
	return j
}

// SetOnSave registers a callback invoked after every save attempt.
func (j *Journal) SetOnSave(fn func(SaveEvent)) {
	j.onSave = fn
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (j *Journal) SetNowFunc(now func() time.Time) {
	if now == nil {
		j.now = time.Now
		return
	}
	j.now = now
}

// Now returns the current time according to the journal clock.
func (j *Journal) Now() time.Time {
	return j.now()
}

// Today returns the current date as YYYY-MM-DD.
func (j *Journal) Today() string {
	return streak.DateKey(j.now())
}

// StorageKey returns the key the snapshot is stored under.
func (j *Journal) StorageKey() string {
	return j.key
}

func (j *Journal) load() {
	j.state = model.NewState()

	raw, ok, err := j.backend.Get(j.key)
	if err != nil {
		j.log.Warn("failed to read journal, starting empty", "key", j.key, "err", err)
		return
	}
	if !ok {
		j.log.Debug("no stored journal, starting empty", "key", j.key)
		return
	}

	state, err := decodeState([]byte(raw))
	if err != nil {
		j.log.Warn("stored journal is corrupt, starting empty", "key", j.key, "err", err)
		if q, ok := j.backend.(storage.Quarantiner); ok {
			dst, qerr := q.Quarantine(j.key)
			if qerr != nil {
				j.log.Error("failed to quarantine corrupt journal", "key", j.key, "err", qerr)
			} else if dst != "" {
				j.log.Warn("corrupt journal moved aside", "key", j.key, "to", dst)
			}
		}
		return
	}
	j.state = state
	j.log.Debug("journal loaded", "key", j.key,
		"daily_logs", len(state.DailyLogs), "habits", len(state.Habits))
}

// save writes the whole aggregate. Failures are logged and reported to the
// save hook; the in-memory state is kept either way.
func (j *Journal) save(ev SaveEvent) {
	data, err := json.Marshal(j.state)
	if err == nil {
		err = j.backend.Set(j.key, string(data))
	}
	if err != nil {
		j.log.Error("failed to save journal", "key", j.key, "op", ev.Operation, "item", ev.ItemType, "err", err)
		ev.Err = err
	}
	if j.onSave != nil {
		j.onSave(ev)
	}
}

func decodeState(data []byte) (*model.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFormat)
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidFormat)
	}
	state := model.NewState()
	if err := json.Unmarshal(trimmed, state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	state.Normalize()
	return state, nil
}

// ExportData serializes the whole aggregate as indented JSON.
func (j *Journal) ExportData() ([]byte, error) {
	data, err := json.MarshalIndent(j.state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export journal: %w", err)
	}
	return data, nil
}

// ImportData replaces the whole aggregate with the document in data. On a
// malformed document the current state is left untouched.
func (j *Journal) ImportData(data []byte) error {
	state, err := decodeState(data)
	if err != nil {
		return err
	}
	j.state = state
	j.save(SaveEvent{Operation: "import", ItemType: "data"})
	return nil
}

// ClearAll discards every log, habit and habit log.
func (j *Journal) ClearAll() {
	j.state = model.NewState()
	j.save(SaveEvent{Operation: "clear", ItemType: "data"})
}

// Reload discards in-memory state and reads the stored snapshot again.
func (j *Journal) Reload() {
	j.load()
}

// Counts reports how many entries of each kind the journal holds.
func (j *Journal) Counts() Counts {
	c := Counts{
		DailyLogs:   len(j.state.DailyLogs),
		MonthlyLogs: len(j.state.MonthlyLogs),
		YearlyLogs:  len(j.state.YearlyLogs),
		Habits:      len(j.state.Habits),
	}
	for _, l := range j.state.DailyLogs {
		c.Tasks += len(l.Tasks)
	}
	for _, logs := range j.state.HabitLogs {
		c.HabitLogs += len(logs)
	}
	return c
}

// Counts is a size summary of the aggregate.
type Counts struct {
	DailyLogs   int `json:"dailyLogs"`
	Tasks       int `json:"tasks"`
	MonthlyLogs int `json:"monthlyLogs"`
	YearlyLogs  int `json:"yearlyLogs"`
	Habits      int `json:"habits"`
	HabitLogs   int `json:"habitLogs"`
}

// touch returns a fresh pointer to the current time for UpdatedAt fields.
func (j *Journal) touch() *time.Time {
	t := j.now()
	return &t
}
