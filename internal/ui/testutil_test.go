package ui

import (
	"testing"
	"time"

	"journal/internal/config"
	"journal/internal/journal"
	"journal/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

// testToday is a Monday, so the habit day labels read T W T F S S M.
var testToday = time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)

// setupTest disables colors so rendered output is plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// newTestStore returns a store over an in-memory journal whose clock is
// pinned to testToday.
func newTestStore(t *testing.T) (*Store, *journal.Journal) {
	t.Helper()
	j := journal.New(storage.NewMemory(), journal.WithClock(func() time.Time { return testToday }))
	return NewStore(j), j
}

func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// drain runs cmd and feeds every resulting message back through update until
// no command is left.
func drain(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()
	for range 20 {
		if cmd == nil {
			return
		}
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = update(msg)
	}
	t.Fatal("command chain did not settle")
}

func appUpdate(a *App) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		_, cmd := a.Update(msg)
		return cmd
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seedTasks(t *testing.T, j *journal.Journal, date string, texts ...string) {
	t.Helper()
	for _, text := range texts {
		_, err := j.AddTask(date, journal.TaskInput{Text: text})
		require.NoError(t, err)
	}
}
