package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"journal/internal/model"
	"journal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock pinned to noon UTC on date.
func fixedClock(t testing.TB, date string) func() time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	at := d.Add(12 * time.Hour)
	return func() time.Time { return at }
}

// newTestJournal creates a Journal over an in-memory backend with today
// pinned to 2025-01-05.
func newTestJournal(t testing.TB) (*Journal, *storage.MemoryBackend) {
	t.Helper()
	mem := storage.NewMemory()
	return New(mem, WithClock(fixedClock(t, "2025-01-05"))), mem
}

// =============================================================================
// Daily logs
// =============================================================================

func TestAddDailyLog(t *testing.T) {
	j, mem := newTestJournal(t)

	l, err := j.AddDailyLog("2025-11-13", DailyLogInput{
		Tasks: []TaskInput{{Text: "buy milk"}, {Text: "ship it", Priority: model.PriorityHigh, Status: model.StatusInProgress}},
		Notes: []string{"quiet day"},
		Tags:  []string{"Home", "home", "Errands"},
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-11-13", l.Date)
	require.Len(t, l.Tasks, 2)
	assert.Equal(t, model.PriorityMedium, l.Tasks[0].Priority)
	assert.Equal(t, model.StatusTodo, l.Tasks[0].Status)
	assert.Equal(t, model.PriorityHigh, l.Tasks[1].Priority)
	assert.Equal(t, []string{"home", "errands"}, l.Tags)
	assert.Equal(t, []string{}, l.Events)
	assert.Equal(t, 1, mem.Sets())
}

func TestAddDailyLog_InvalidDate(t *testing.T) {
	for _, date := range []string{"2025-13-01", "2025-1-01", "", "yesterday", "2025-01-32"} {
		t.Run(date, func(t *testing.T) {
			j, mem := newTestJournal(t)
			_, err := j.AddDailyLog(date, DailyLogInput{Tasks: []TaskInput{{Text: "x"}}})
			require.ErrorIs(t, err, ErrInvalidFormat)
			assert.Empty(t, j.ListDailyLogs())
			assert.Equal(t, 0, mem.Sets(), "failed mutations must not persist")
		})
	}
}

func TestAddDailyLog_InvalidTaskLeavesNoLog(t *testing.T) {
	j, mem := newTestJournal(t)

	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{
		Tasks: []TaskInput{{Text: "fine"}, {Text: "bad", Priority: "urgent"}},
	})
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.False(t, j.HasDailyLog("2025-01-01"))
	assert.Equal(t, 0, mem.Sets())
}

func TestAddDailyLog_Replaces(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Notes: []string{"first"}})
	require.NoError(t, err)
	_, err = j.AddDailyLog("2025-01-01", DailyLogInput{Notes: []string{"second"}})
	require.NoError(t, err)

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, l.Notes)
	assert.Len(t, j.ListDailyLogs(), 1)
}

func TestGetDailyLog_Errors(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.GetDailyLog("2025-01-01")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = j.GetDailyLog("01/01/2025")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestGetDailyLog_ReturnsCopy(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tags: []string{"a"}})
	require.NoError(t, err)

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	l.Tags[0] = "mutated"

	again, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestUpdateDailyLog(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{
		Tasks: []TaskInput{{Text: "a"}},
		Notes: []string{"n1"},
		Tags:  []string{"x"},
	})
	require.NoError(t, err)

	l, err := j.UpdateDailyLog("2025-01-01", DailyLogPatch{
		Notes: []string{},
		Tags:  []string{"Y"},
	})
	require.NoError(t, err)
	assert.Len(t, l.Tasks, 1, "nil field is left alone")
	assert.Empty(t, l.Notes, "empty slice clears")
	assert.Equal(t, []string{"y"}, l.Tags)
	assert.NotNil(t, l.UpdatedAt)

	_, err = j.UpdateDailyLog("2025-02-01", DailyLogPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDailyLog(t *testing.T) {
	j, mem := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{})
	require.NoError(t, err)

	assert.True(t, j.DeleteDailyLog("2025-01-01"))
	assert.False(t, j.DeleteDailyLog("2025-01-01"))
	assert.Equal(t, 2, mem.Sets())
}

func TestDailyLogsInRange(t *testing.T) {
	j, _ := newTestJournal(t)
	for _, d := range []string{"2025-01-03", "2025-01-01", "2025-01-02", "2025-02-01"} {
		_, err := j.AddDailyLog(d, DailyLogInput{})
		require.NoError(t, err)
	}

	dates := func(logs []model.DailyLog) []string {
		var out []string
		for _, l := range logs {
			out = append(out, l.Date)
		}
		return out
	}
	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-02-01"}, dates(j.ListDailyLogs()))
	assert.Equal(t, []string{"2025-01-02", "2025-01-03"}, dates(j.DailyLogsInRange("2025-01-02", "2025-01-31")))
	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, dates(j.DailyLogsInRange("", "2025-01-02")))
}

// =============================================================================
// Tasks
// =============================================================================

func TestTaskStatusScenario(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.AddDailyLog("2025-11-13", DailyLogInput{
		Tasks: []TaskInput{{Text: "buy milk"}},
		Tags:  []string{"home"},
	})
	require.NoError(t, err)
	require.NoError(t, j.UpdateTaskStatus("2025-11-13", 0, model.StatusCompleted))

	done, err := j.GetTasksByStatus(model.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "buy milk", done[0].Text)
	assert.Equal(t, "2025-11-13", done[0].Date)
	assert.Equal(t, 0, done[0].Index)
	assert.NotNil(t, done[0].UpdatedAt)
}

func TestAddTask_CreatesLog(t *testing.T) {
	j, _ := newTestJournal(t)

	idx, err := j.AddTask("2025-01-01", TaskInput{Text: "first"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = j.AddTask("2025-01-01", TaskInput{Text: "second", Priority: model.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	require.Len(t, l.Tasks, 2)
	assert.Equal(t, model.PriorityLow, l.Tasks[1].Priority)
}

func TestAddTask_Validation(t *testing.T) {
	j, mem := newTestJournal(t)

	tests := []struct {
		name string
		date string
		in   TaskInput
	}{
		{"empty text", "2025-01-01", TaskInput{Text: "   "}},
		{"bad priority", "2025-01-01", TaskInput{Text: "x", Priority: "urgent"}},
		{"bad status", "2025-01-01", TaskInput{Text: "x", Status: "done"}},
		{"bad date", "2025-02-30x", TaskInput{Text: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.AddTask(tt.date, tt.in)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
	assert.False(t, j.HasDailyLog("2025-01-01"), "no log is created when the task is rejected")
	assert.Equal(t, 0, mem.Sets())
}

func TestUpdateTask_Errors(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddTask("2025-01-01", TaskInput{Text: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, j.UpdateTaskStatus("2025-01-02", 0, model.StatusCompleted), ErrNotFound)
	assert.ErrorIs(t, j.UpdateTaskStatus("2025-01-01", 1, model.StatusCompleted), ErrNotFound)
	assert.ErrorIs(t, j.UpdateTaskStatus("2025-01-01", -1, model.StatusCompleted), ErrNotFound)
	assert.ErrorIs(t, j.UpdateTaskStatus("2025-01-01", 0, "finished"), ErrInvalidFormat)
	assert.ErrorIs(t, j.UpdateTaskPriority("2025-01-01", 0, "p0"), ErrInvalidFormat)
	assert.ErrorIs(t, j.UpdateTaskText("2025-01-01", 0, ""), ErrInvalidFormat)
	assert.ErrorIs(t, j.DeleteTask("2025-01-01", 3), ErrNotFound)
}

func TestUpdateTaskPriorityAndText(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddTask("2025-01-01", TaskInput{Text: "draft"})
	require.NoError(t, err)

	require.NoError(t, j.UpdateTaskPriority("2025-01-01", 0, model.PriorityHigh))
	require.NoError(t, j.UpdateTaskText("2025-01-01", 0, "  final  "))

	high, err := j.GetTasksByPriority(model.PriorityHigh)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "final", high[0].Text)
}

func TestDeleteTask_ShiftsIndices(t *testing.T) {
	j, _ := newTestJournal(t)
	for _, text := range []string{"a", "b", "c"} {
		_, err := j.AddTask("2025-01-01", TaskInput{Text: text})
		require.NoError(t, err)
	}

	require.NoError(t, j.DeleteTask("2025-01-01", 1))

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	require.Len(t, l.Tasks, 2)
	assert.Equal(t, "a", l.Tasks[0].Text)
	assert.Equal(t, "c", l.Tasks[1].Text)
}

func TestAddNoteAndEvent(t *testing.T) {
	j, _ := newTestJournal(t)

	require.NoError(t, j.AddNote("2025-01-01", "slept well"))
	require.NoError(t, j.AddEvent("2025-01-01", "dentist 3pm"))
	assert.ErrorIs(t, j.AddNote("2025-01-01", ""), ErrInvalidFormat)
	assert.ErrorIs(t, j.AddEvent("nope", "x"), ErrInvalidFormat)

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"slept well"}, l.Notes)
	assert.Equal(t, []string{"dentist 3pm"}, l.Events)
}

func TestTaskInput_UnmarshalJSON(t *testing.T) {
	var in DailyLogInput
	doc := `{"tasks": ["buy milk", {"text": "call mom", "priority": "high"}], "tags": ["x"]}`
	require.NoError(t, json.Unmarshal([]byte(doc), &in))

	require.Len(t, in.Tasks, 2)
	assert.Equal(t, TaskInput{Text: "buy milk"}, in.Tasks[0])
	assert.Equal(t, TaskInput{Text: "call mom", Priority: model.PriorityHigh}, in.Tasks[1])

	assert.Error(t, json.Unmarshal([]byte(`{"tasks": [42]}`), &in))
}

// =============================================================================
// Tags and queries
// =============================================================================

func TestTags_CaseInsensitive(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tags: []string{"Work"}})
	require.NoError(t, err)

	lower := j.GetLogsByTag("work")
	upper := j.GetLogsByTag("WORK")
	require.Len(t, lower, 1)
	assert.Equal(t, lower, upper)
}

func TestGetLogsByTags_IsIntersection(t *testing.T) {
	j, _ := newTestJournal(t)
	fixtures := map[string][]string{
		"2025-01-01": {"a"},
		"2025-01-02": {"a", "b"},
		"2025-01-03": {"b"},
		"2025-01-04": {"A", "B", "c"},
	}
	for date, tags := range fixtures {
		_, err := j.AddDailyLog(date, DailyLogInput{Tags: tags})
		require.NoError(t, err)
	}

	byDate := func(logs []model.DailyLog) map[string]bool {
		out := map[string]bool{}
		for _, l := range logs {
			out[l.Date] = true
		}
		return out
	}
	a := byDate(j.GetLogsByTag("a"))
	b := byDate(j.GetLogsByTag("b"))
	want := map[string]bool{}
	for d := range a {
		if b[d] {
			want[d] = true
		}
	}

	assert.Equal(t, want, byDate(j.GetLogsByTags([]string{"a", "b"})))
	assert.Len(t, j.GetLogsByTags(nil), 4, "empty tag list matches every log")
}

func TestAddRemoveTags(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tags: []string{"home"}})
	require.NoError(t, err)

	tags, err := j.AddTags("2025-01-01", "Work", "HOME", "gym")
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work", "gym"}, tags)

	tags, err = j.RemoveTags("2025-01-01", "WORK", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "gym"}, tags)

	_, err = j.AddTags("2025-01-09", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = j.RemoveTags("2025-01-09", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"gym", "home"}, j.GetAllTags())
}

func TestSearchLogs(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tasks: []TaskInput{{Text: "Buy MILK"}}})
	require.NoError(t, err)
	_, err = j.AddDailyLog("2025-01-02", DailyLogInput{Notes: []string{"no dairy"}})
	require.NoError(t, err)
	_, err = j.AddDailyLog("2025-01-03", DailyLogInput{Events: []string{"milkshake with Sam"}})
	require.NoError(t, err)

	got := j.SearchLogs("milk")
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-01", got[0].Date)
	assert.Equal(t, "2025-01-03", got[1].Date)
	assert.Empty(t, j.SearchLogs("cheese"))
}

func TestQueries_InvalidEnums(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.GetTasksByStatus("finished")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = j.GetTasksByPriority("p1")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

// =============================================================================
// Monthly and yearly logs
// =============================================================================

func TestMonthlyLogs(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.AddMonthlyLog("2025-1", MonthlyLogInput{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	l, err := j.AddMonthlyLog("2025-01", MonthlyLogInput{Goals: []string{"run 50km"}})
	require.NoError(t, err)
	assert.Equal(t, []string{}, l.Highlights)

	l, err = j.UpdateMonthlyLog("2025-01", MonthlyLogInput{Highlights: []string{"new job"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"run 50km"}, l.Goals)
	assert.Equal(t, []string{"new job"}, l.Highlights)

	_, err = j.GetMonthlyLog("2025-02")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = j.UpdateMonthlyLog("2025-02", MonthlyLogInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, j.ListMonthlyLogs(), 1)
	assert.True(t, j.DeleteMonthlyLog("2025-01"))
	assert.False(t, j.DeleteMonthlyLog("2025-01"))
}

func TestYearlyLogs(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.AddYearlyLog("25", YearlyLogInput{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = j.AddYearlyLog("2025", YearlyLogInput{Overview: []string{"Q1: settle in"}})
	require.NoError(t, err)
	_, err = j.AddYearlyLog("2024", YearlyLogInput{})
	require.NoError(t, err)

	l, err := j.UpdateYearlyLog("2025", YearlyLogInput{Goals: []string{"read 20 books"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1: settle in"}, l.Overview)
	assert.Equal(t, []string{"read 20 books"}, l.Goals)

	years := j.ListYearlyLogs()
	require.Len(t, years, 2)
	assert.Equal(t, "2024", years[0].Year)

	_, err = j.GetYearlyLog("2023")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, j.DeleteYearlyLog("2024"))
}

// =============================================================================
// Persistence
// =============================================================================

func TestPersistence_RoundTripThroughBackend(t *testing.T) {
	mem := storage.NewMemory()
	clock := fixedClock(t, "2025-01-05")

	a := New(mem, WithClock(clock))
	_, err := a.AddDailyLog("2025-01-05", DailyLogInput{Tasks: []TaskInput{{Text: "x"}}})
	require.NoError(t, err)
	_, err = a.CreateHabit(HabitInput{ID: "ex", Name: "Exercise"})
	require.NoError(t, err)
	_, err = a.LogHabit("ex", "2025-01-05", LogInput{})
	require.NoError(t, err)

	b := New(mem, WithClock(clock))
	l, err := b.GetDailyLog("2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, "x", l.Tasks[0].Text)
	s, err := b.GetHabitStreak("ex")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Current)
}

func TestPersistence_StorageKey(t *testing.T) {
	mem := storage.NewMemory()
	j := New(mem, WithStorageKey("alt"), WithClock(fixedClock(t, "2025-01-05")))
	_, err := j.AddYearlyLog("2025", YearlyLogInput{})
	require.NoError(t, err)

	_, ok, err := mem.Get("alt")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = mem.Get(storage.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "alt", j.StorageKey())
}

func TestPersistence_ReadsNeverSave(t *testing.T) {
	j, mem := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tags: []string{"a"}})
	require.NoError(t, err)
	before := mem.Sets()

	_, _ = j.GetDailyLog("2025-01-01")
	_ = j.ListDailyLogs()
	_ = j.GetLogsByTag("a")
	_ = j.SearchLogs("a")
	_ = j.GetAllTags()
	_, _ = j.GetTasksByStatus(model.StatusTodo)
	_, _ = j.ExportData()

	assert.Equal(t, before, mem.Sets())
}

func TestPersistence_SaveFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	mem := storage.NewMemory()
	mem.SetErr = errors.New("quota exceeded")

	var events []SaveEvent
	j := New(mem, WithLogger(logger), WithClock(fixedClock(t, "2025-01-05")))
	j.SetOnSave(func(ev SaveEvent) { events = append(events, ev) })

	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{})
	require.NoError(t, err, "save failures are not returned")
	assert.True(t, j.HasDailyLog("2025-01-01"), "in-memory state keeps the change")
	assert.Contains(t, buf.String(), "quota exceeded")
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)
	assert.Equal(t, "daily", events[0].ItemType)
}

func TestPersistence_LoadFailureStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	mem := storage.NewMemory()
	mem.GetErr = errors.New("storage unavailable")

	j := New(mem, WithLogger(logger))
	assert.Empty(t, j.ListDailyLogs())
	assert.Contains(t, buf.String(), "storage unavailable")
}

func TestPersistence_CorruptSnapshotIsQuarantined(t *testing.T) {
	dir := t.TempDir()
	file, err := storage.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, file.Set(storage.DefaultKey, "{not json"))

	var buf bytes.Buffer
	j := New(file, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	assert.Empty(t, j.ListDailyLogs())
	assert.Contains(t, buf.String(), "corrupt")

	_, ok, err := file.Get(storage.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt file moved aside")
}

// =============================================================================
// Export / import
// =============================================================================

func seedJournal(t *testing.T, j *Journal) {
	t.Helper()
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{
		Tasks:  []TaskInput{{Text: "a", Priority: model.PriorityHigh}},
		Notes:  []string{"n"},
		Events: []string{"e"},
		Tags:   []string{"t"},
	})
	require.NoError(t, err)
	require.NoError(t, j.UpdateTaskStatus("2025-01-01", 0, model.StatusCompleted))
	_, err = j.AddMonthlyLog("2025-01", MonthlyLogInput{Goals: []string{"g"}})
	require.NoError(t, err)
	_, err = j.AddYearlyLog("2025", YearlyLogInput{Overview: []string{"o"}})
	require.NoError(t, err)
	_, err = j.CreateHabit(HabitInput{ID: "ex", Name: "Exercise", Tags: []string{"Health"}})
	require.NoError(t, err)
	v := 2.5
	_, err = j.LogHabit("ex", "2025-01-04", LogInput{Note: "5k", Value: &v})
	require.NoError(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	j, _ := newTestJournal(t)
	seedJournal(t, j)

	first, err := j.ExportData()
	require.NoError(t, err)

	other, _ := newTestJournal(t)
	require.NoError(t, other.ImportData(first))
	second, err := other.ExportData()
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, j.Counts(), other.Counts())
}

func TestExportData_TopLevelKeys(t *testing.T) {
	j, _ := newTestJournal(t)
	data, err := j.ExportData()
	require.NoError(t, err)

	for _, key := range []string{"dailyLogs", "monthlyLogs", "yearlyLogs", "habits", "habitLogs"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
	assert.Contains(t, string(data), "\n  ", "export is indented")
}

func TestImportData_PartialDocument(t *testing.T) {
	j, mem := newTestJournal(t)
	doc := `{"dailyLogs": {"2025-01-01": {"tasks": [{"text": "x", "priority": "low", "status": "todo"}]}}}`

	require.NoError(t, j.ImportData([]byte(doc)))
	assert.Equal(t, 1, mem.Sets())

	l, err := j.GetDailyLog("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", l.Date)
	assert.Equal(t, []string{}, l.Notes)
	assert.Empty(t, j.ListHabits())
}

func TestImportData_Malformed(t *testing.T) {
	for _, doc := range []string{"", "{", "[]", "null", `{"dailyLogs": 5}`} {
		t.Run(doc, func(t *testing.T) {
			j, mem := newTestJournal(t)
			seedJournal(t, j)
			before, err := j.ExportData()
			require.NoError(t, err)
			sets := mem.Sets()

			err = j.ImportData([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidFormat)

			after, err := j.ExportData()
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after))
			assert.Equal(t, sets, mem.Sets())
		})
	}
}

func TestClearAllAndReload(t *testing.T) {
	j, mem := newTestJournal(t)
	seedJournal(t, j)

	j.ClearAll()
	assert.Equal(t, Counts{}, j.Counts())

	// Reload reads back the cleared snapshot, not the seeded one.
	j.Reload()
	assert.Equal(t, Counts{}, j.Counts())

	raw, ok, err := mem.Get(storage.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.Contains(raw, `"dailyLogs":{}`))
}

func TestGetLogsByTagPattern(t *testing.T) {
	j, _ := newTestJournal(t)
	_, err := j.AddDailyLog("2025-01-01", DailyLogInput{Tags: []string{"proj-alpha"}})
	require.NoError(t, err)
	_, err = j.AddDailyLog("2025-01-02", DailyLogInput{Tags: []string{"home"}})
	require.NoError(t, err)

	got, err := j.GetLogsByTagPattern("proj-*")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-01", got[0].Date)

	_, err = j.GetLogsByTagPattern("[oops")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
