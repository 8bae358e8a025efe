package importer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"journal/internal/journal"
	"journal/internal/model"
	"journal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *journal.Journal {
	t.Helper()
	now := time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)
	return journal.New(storage.NewMemory(), journal.WithClock(func() time.Time { return now }))
}

func TestTodoist_ParseCSV(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE,PROJECT
task,Buy groceries,4,1,,,2025-12-20,en,America/New_York,Home
task,Review PR,1,1,,,,,,Work
note,This is a note,4,1,,,,,,
task,Call mom,3,1,,,Jan 2 2026,,,`

	tasks, err := (&TodoistImporter{}).Preview(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, tasks, 3, "notes are skipped")

	assert.Equal(t, Task{Text: "Buy groceries", Project: "Home", Priority: model.PriorityLow, Date: "2025-12-20"}, tasks[0])
	assert.Equal(t, Task{Text: "Review PR", Project: "Work", Priority: model.PriorityHigh}, tasks[1])
	assert.Equal(t, "2026-01-02", tasks[2].Date)
}

func TestTodoist_PriorityMapping(t *testing.T) {
	tests := map[string]model.Priority{
		"1": model.PriorityHigh,
		"2": model.PriorityHigh,
		"3": model.PriorityMedium,
		"4": model.PriorityLow,
		"":  "",
		"5": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, mapTodoistPriority(in), "priority %q", in)
	}
}

func TestTodoist_DateParsing(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-12-20", "2025-12-20"},
		{"Jan 2 2025", "2025-01-02"},
		{"Jan 2, 2025", "2025-01-02"},
		{"12/31/2025", "2025-12-31"},
		{"", ""},
		{"invalid", ""},
	}
	for _, tc := range tests {
		got := parseTodoistDate(tc.input)
		if tc.want == "" {
			assert.Nil(t, got, "input %q", tc.input)
			continue
		}
		require.NotNil(t, got, "input %q", tc.input)
		assert.Equal(t, tc.want, got.Format("2006-01-02"))
	}
}

func TestTodoist_BadInput(t *testing.T) {
	_, err := (&TodoistImporter{}).Preview(strings.NewReader(""))
	assert.Error(t, err, "empty CSV")

	_, err = (&TodoistImporter{}).Preview(strings.NewReader("CONTENT,PRIORITY\nBuy groceries,4"))
	assert.ErrorContains(t, err, "missing required column: TYPE")
}

func TestTodoist_HeaderBOMAndRaggedRows(t *testing.T) {
	csv := "\ufeffTYPE,CONTENT,PRIORITY\n" +
		"task,With BOM,4,EXTRA,EXTRA2\n" +
		"task,Short\n"

	tasks, err := (&TodoistImporter{}).Preview(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "With BOM", tasks[0].Text)
	assert.Equal(t, model.Priority(""), tasks[1].Priority)
}

func TestTaskwarrior_ParseJSON(t *testing.T) {
	data := `[
		{"description":"Buy milk","status":"pending","project":"Home","priority":"H"},
		{"description":"Review code","status":"completed","project":"Work"},
		{"description":"Deleted task","status":"deleted"},
		{"description":"  ","status":"pending"}
	]`

	tasks, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, Task{Text: "Buy milk", Project: "Home", Priority: model.PriorityHigh}, tasks[0])
	assert.True(t, tasks[1].Done)
}

func TestTaskwarrior_ParseNDJSON(t *testing.T) {
	ndjson := "\n  " + `{"description":"Task 1","status":"pending"}

{"description":"Task 2","status":"waiting","priority":"M","due":"20251220T120000Z"}
{"description":"Task 3","status":"completed"}`

	tasks, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(ndjson))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, model.PriorityMedium, tasks[1].Priority)
	assert.False(t, tasks[1].Done)
	want := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC).Local().Format("2006-01-02")
	assert.Equal(t, want, tasks[1].Date)
	assert.True(t, tasks[2].Done)
}

func TestTaskwarrior_PriorityMapping(t *testing.T) {
	tests := map[string]model.Priority{
		"H": model.PriorityHigh,
		"h": model.PriorityHigh,
		"M": model.PriorityMedium,
		"l": model.PriorityLow,
		"":  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, mapTaskwarriorPriority(in), "priority %q", in)
	}
}

func TestTaskwarrior_DateParsing(t *testing.T) {
	for _, in := range []string{"20251220T000000Z", "20251220T120000", "2025-12-20T00:00:00Z", "2025-12-20"} {
		assert.NotNil(t, parseTaskwarriorDate(in), "input %q", in)
	}
	assert.Nil(t, parseTaskwarriorDate(""))
	assert.Nil(t, parseTaskwarriorDate("invalid"))

	got := parseTaskwarriorDate("2025-12-20")
	require.NotNil(t, got)
	assert.Equal(t, "2025-12-20", got.Format("2006-01-02"), "zoneless dates are local")
}

func TestTaskwarrior_BadInput(t *testing.T) {
	_, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(" \n "))
	assert.ErrorContains(t, err, "empty input")

	ndjson := `{"description":"Task 1","status":"pending"}
{invalid json}`
	_, err = (&TaskwarriorImporter{}).Preview(strings.NewReader(ndjson))
	assert.ErrorContains(t, err, "line 2")

	_, err = (&TaskwarriorImporter{}).Preview(strings.NewReader(`[{"description":1}]`))
	assert.ErrorContains(t, err, "task 1")
}

func TestTaskwarrior_LongNDJSONLine(t *testing.T) {
	desc := strings.Repeat("a", 70_000)
	ndjson := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n", desc)

	tasks, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(ndjson))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Len(t, tasks[0].Text, len(desc))
}

func TestGetImporter(t *testing.T) {
	for _, format := range SupportedFormats() {
		imp := GetImporter(format)
		require.NotNil(t, imp, format)
		assert.Equal(t, format, imp.Name())
	}
	assert.Equal(t, "todoist", GetImporter("Todoist").Name())
	assert.Nil(t, GetImporter("unknown"))
}

func TestProjectTag(t *testing.T) {
	assert.Equal(t, "home", ProjectTag("Home"))
	assert.Equal(t, "side-project", ProjectTag("  Side   Project "))
	assert.Equal(t, "", ProjectTag(""))
}

func TestImport_IntoDailyLogs(t *testing.T) {
	j := newJournal(t)

	csv := `TYPE,CONTENT,PRIORITY,DATE,PROJECT
task,Buy groceries,4,2025-12-20,Home
task,Review PR,1,,Day Job
task,Pay rent,2,2025-12-20,`

	result, err := (&TodoistImporter{}).Import(strings.NewReader(csv), j, "2025-12-15")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, []string{"2025-12-15", "2025-12-20"}, result.Dates)
	assert.Empty(t, result.Errors)

	log, err := j.GetDailyLog("2025-12-20")
	require.NoError(t, err)
	require.Len(t, log.Tasks, 2)
	assert.Equal(t, "Buy groceries", log.Tasks[0].Text)
	assert.Equal(t, model.PriorityLow, log.Tasks[0].Priority)
	assert.Equal(t, model.StatusTodo, log.Tasks[0].Status)
	assert.Equal(t, []string{"home"}, log.Tags)

	log, err = j.GetDailyLog("2025-12-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"day-job"}, log.Tags)
}

func TestImport_CompletedTasks(t *testing.T) {
	j := newJournal(t)

	data := `[{"description":"Ship it","status":"completed","due":"2025-12-10"},
	          {"description":"Plan","status":"pending"}]`
	result, err := (&TaskwarriorImporter{}).Import(strings.NewReader(data), j, "2025-12-15")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	log, err := j.GetDailyLog("2025-12-10")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, log.Tasks[0].Status)
	assert.Equal(t, model.PriorityMedium, log.Tasks[0].Priority, "no priority means the journal default")
}

type failingSink struct {
	added []string
}

func (f *failingSink) AddTask(date string, in journal.TaskInput) (int, error) {
	if in.Text == "bad" {
		return 0, errors.New("rejected")
	}
	f.added = append(f.added, date+" "+in.Text)
	return len(f.added) - 1, nil
}

func (f *failingSink) AddTags(date string, tags ...string) ([]string, error) {
	return tags, nil
}

func TestImport_ContinuesPastFailures(t *testing.T) {
	sink := &failingSink{}
	tasks := []Task{{Text: "good"}, {Text: "bad"}, {Text: "also good", Date: "2025-12-01"}}

	result := addAll(tasks, sink, "2025-12-15")
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"bad: rejected"}, result.Errors)
	assert.Equal(t, []string{"2025-12-15 good", "2025-12-01 also good"}, sink.added)
	assert.Equal(t, []string{"2025-12-01", "2025-12-15"}, result.Dates)
}

func TestImport_InvalidFallbackDate(t *testing.T) {
	j := newJournal(t)
	result, err := (&TodoistImporter{}).Import(strings.NewReader("TYPE,CONTENT\ntask,Orphan\n"), j, "someday")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Orphan")
}
