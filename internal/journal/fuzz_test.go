package journal

import (
	"errors"
	"strings"
	"testing"

	"journal/internal/storage"
	"journal/internal/validate"
)

// FuzzAddTask checks that AddTask never panics and only accepts well-formed
// dates and non-blank text.
func FuzzAddTask(f *testing.F) {
	f.Add("2025-01-05", "Valid task")
	f.Add("2025-13-01", "bad month")
	f.Add("2025-01-05", "")
	f.Add("2025-01-05", "   whitespace   ")
	f.Add("", "no date")
	f.Add("2025-01-05", "Task with unicode: 🎉🚀")
	f.Add("2025-01-05", "\x00\x01\x02")

	f.Fuzz(func(t *testing.T, date, text string) {
		j := New(storage.NewMemory())

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("AddTask panicked with date=%q text=%q: %v", date, text, r)
			}
		}()

		idx, err := j.AddTask(date, TaskInput{Text: text})
		if !validate.IsValidDate(date) || strings.TrimSpace(text) == "" {
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("AddTask(%q, %q) error = %v, want ErrInvalidFormat", date, text, err)
			}
			if j.HasDailyLog(date) {
				t.Fatalf("rejected task left a log behind for %q", date)
			}
			return
		}
		if err != nil {
			t.Fatalf("AddTask(%q, %q) unexpected error: %v", date, text, err)
		}
		l, err := j.GetDailyLog(date)
		if err != nil {
			t.Fatalf("GetDailyLog(%q): %v", date, err)
		}
		if l.Tasks[idx].Text != strings.TrimSpace(text) {
			t.Errorf("stored text = %q, want %q", l.Tasks[idx].Text, strings.TrimSpace(text))
		}
	})
}

// FuzzImportData checks that arbitrary documents either import cleanly and
// survive a second round trip, or are rejected without touching state.
func FuzzImportData(f *testing.F) {
	f.Add(`{}`)
	f.Add(`{"dailyLogs":{}}`)
	f.Add(`{"habits":{"ex":{"name":"x"}},"habitLogs":{"ex":{"2025-01-01":{"completed":true}}}}`)
	f.Add(`{"dailyLogs":{"2025-01-01":null}}`)
	f.Add(`{"dailyLogs": 5}`)
	f.Add(`[]`)
	f.Add(`null`)
	f.Add(`{`)

	f.Fuzz(func(t *testing.T, doc string) {
		j := New(storage.NewMemory())
		if _, err := j.AddYearlyLog("2025", YearlyLogInput{}); err != nil {
			t.Fatal(err)
		}

		if err := j.ImportData([]byte(doc)); err != nil {
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("ImportData error = %v, want ErrInvalidFormat", err)
			}
			if _, err := j.GetYearlyLog("2025"); err != nil {
				t.Fatalf("state changed after rejected import: %v", err)
			}
			return
		}

		first, err := j.ExportData()
		if err != nil {
			t.Fatal(err)
		}
		if err := j.ImportData(first); err != nil {
			t.Fatalf("re-import of export failed: %v", err)
		}
		second, err := j.ExportData()
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(second) {
			t.Errorf("export not stable across import:\n%s\n---\n%s", first, second)
		}
	})
}
