package ui

import (
	"fmt"
	"strings"
	"time"

	"journal/internal/config"
	"journal/internal/model"
	"journal/internal/streak"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// habitRow is one habit as the pane displays it.
type habitRow struct {
	habit   model.Habit
	week    []bool // 7 days ending today, oldest first
	current int
	longest int
	rate    float64
	done    bool
}

// HabitsPane handles habit tracking display and interactions.
type HabitsPane struct {
	store     *Store
	styles    *Styles
	rows      []habitRow
	cursor    int
	focused   bool
	width     int
	height    int
	statsDays int

	keys HabitKeyMap
}

// NewHabitsPane creates a habits pane. statsDays is the window behind the
// completion rate column.
func NewHabitsPane(store *Store, styles *Styles, keyCfg *config.KeysConfig, statsDays int) *HabitsPane {
	if statsDays < 1 {
		statsDays = 30
	}
	return &HabitsPane{
		store:     store,
		styles:    styles,
		statsDays: statsDays,
		keys:      NewHabitKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that loads habits asynchronously.
func (p *HabitsPane) LoadCmd() tea.Cmd {
	return loadHabitsCmd(p.store, p.statsDays)
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *HabitsPane) SetFocused(focused bool) {
	p.focused = focused
}

// TodayCompletion returns how many habits are done today.
func (p *HabitsPane) TodayCompletion() (done, total int) {
	for _, r := range p.rows {
		if r.done {
			done++
		}
	}
	return done, len(p.rows)
}

func (p *HabitsPane) setRows(rows []habitRow) {
	p.rows = rows
	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

func (p *HabitsPane) toggleSelected() tea.Cmd {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	h := p.rows[p.cursor].habit
	return toggleHabitCmd(p.store, h.ID, h.Name, p.store.Today())
}

// Update handles messages for the habits pane.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case habitsLoadedMsg:
		if msg.err == nil {
			p.setRows(msg.rows)
		}
		return nil

	case habitToggledMsg:
		return p.LoadCmd()
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.rows) > 0 {
				p.cursor = min(p.cursor+1, len(p.rows)-1)
			}
		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(len(p.rows)-1, 0)
		case key.Matches(msg, p.keys.Toggle):
			return p.toggleSelected()
		}
	}
	return nil
}

// Title (1) + separator (1) + day labels (1).
const habitHeaderRows = 3

func (p *HabitsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.rows) == 0 {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.rows)-1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - habitHeaderRows
		if row < 0 || row >= len(p.rows) {
			return nil
		}
		p.cursor = row
		if msg.X < 4 {
			return p.toggleSelected()
		}
	}
	return nil
}

// nameWidth is the column reserved for habit names.
func (p *HabitsPane) nameWidth() int {
	// prefix(2) + name + week(13) + streak/rate (~20)
	return min(max(p.width-4-2-13-20, 6), 24)
}

// View renders the habits pane.
func (p *HabitsPane) View() string {
	var b strings.Builder
	contentWidth := max(p.width-4, 10)

	b.WriteString(p.styles.PaneTitleStyle.Render("🔥 HABITS"))
	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", contentWidth)))
	b.WriteString("\n")

	if len(p.rows) == 0 {
		b.WriteString(p.styles.NoteStyle.Render("  No habits yet."))
		b.WriteString("\n")
		b.WriteString(p.styles.NoteStyle.Render(ansi.Truncate("  Create one with `journal habit create`.", contentWidth, "…")))
		b.WriteString("\n")
	} else {
		nameWidth := p.nameWidth()
		b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat(" ", 2+nameWidth+1) + p.dayLabels()))
		b.WriteString("\n")

		best := 0
		for i, r := range p.rows {
			best = max(best, r.longest)
			b.WriteString(p.renderRow(i, r, nameWidth))
			b.WriteString("\n")
		}

		done, total := p.TodayCompletion()
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("Today: %d/%d", done, total)))
		if best > 0 {
			b.WriteString("  " + p.styles.StatLabelStyle.Render("Best streak: ") + p.styles.HabitStreakStyle.Render(fmt.Sprintf("%d", best)))
		}
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *HabitsPane) renderRow(i int, r habitRow, nameWidth int) string {
	prefix := "  "
	selected := i == p.cursor && p.focused
	if selected {
		prefix = "▶ "
	}

	name := ansi.Truncate(r.habit.Name, nameWidth, "…")
	name += strings.Repeat(" ", max(nameWidth-ansi.StringWidth(name), 0))

	line := prefix + name + " " + p.renderWeek(r.week)
	line += fmt.Sprintf("  %3.0f%%", r.rate)
	if r.current > 0 {
		line += " " + p.styles.HabitStreakStyle.Render(fmt.Sprintf("🔥%d", r.current))
	}
	if selected {
		return p.styles.TaskSelectedStyle.Render(line)
	}
	return line
}

func (p *HabitsPane) renderWeek(week []bool) string {
	icons := make([]string, len(week))
	for i, done := range week {
		icons[i] = p.styles.HabitUndoneIcon
		if done {
			icons[i] = p.styles.HabitDoneIcon
		}
	}
	return strings.Join(icons, " ")
}

// dayLabels returns the initials of the 7 days ending today.
func (p *HabitsPane) dayLabels() string {
	today, err := time.Parse(streak.DateLayout, p.store.Today())
	if err != nil {
		return ""
	}
	days := make([]string, 7)
	for i := range days {
		days[i] = today.AddDate(0, 0, i-6).Format("Mon")[:1]
	}
	return strings.Join(days, " ")
}
