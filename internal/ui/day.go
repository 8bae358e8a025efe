package ui

import (
	"fmt"
	"strings"
	"time"

	"journal/internal/config"
	"journal/internal/model"
	"journal/internal/streak"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DayPane shows the daily log of one date and edits its tasks.
type DayPane struct {
	store   *Store
	styles  *Styles
	date    string
	log     model.DailyLog
	exists  bool
	cursor  int
	focused bool
	width   int
	height  int
	adding  bool
	input   textinput.Model

	keys      DayKeyMap
	inputKeys InputKeyMap
}

// NewDayPane creates a day pane positioned on the journal's today.
func NewDayPane(store *Store, styles *Styles, keyCfg *config.KeysConfig) *DayPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Width = 40

	return &DayPane{
		store:     store,
		styles:    styles,
		date:      store.Today(),
		focused:   true,
		input:     ti,
		keys:      NewDayKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that loads the pane's current date.
func (p *DayPane) LoadCmd() tea.Cmd {
	return loadDayCmd(p.store, p.date)
}

// Date returns the date being shown.
func (p *DayPane) Date() string {
	return p.date
}

// SetSize sets the pane dimensions.
func (p *DayPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *DayPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsAdding returns whether we're in add mode.
func (p *DayPane) IsAdding() bool {
	return p.adding
}

// Selected returns the index and task under the cursor.
func (p *DayPane) Selected() (int, model.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.log.Tasks) {
		return 0, model.Task{}, false
	}
	return p.cursor, p.log.Tasks[p.cursor], true
}

// Stats returns completed tasks and tasks still counted (cancelled ones are
// left out).
func (p *DayPane) Stats() (done, total int) {
	for _, t := range p.log.Tasks {
		switch t.Status {
		case model.StatusCompleted:
			done++
			total++
		case model.StatusCancelled:
		default:
			total++
		}
	}
	return done, total
}

// goTo moves the pane to date and reloads.
func (p *DayPane) goTo(date string) tea.Cmd {
	p.date = date
	p.cursor = 0
	p.log = model.DailyLog{}
	p.exists = false
	return p.LoadCmd()
}

// Update handles messages for the day pane.
func (p *DayPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dayLoadedMsg:
		// A late load for a date we have navigated away from.
		if msg.date != p.date || msg.err != nil {
			return nil
		}
		p.log = msg.log
		p.exists = msg.exists
		if p.cursor >= len(p.log.Tasks) {
			p.cursor = max(0, len(p.log.Tasks)-1)
		}
		return nil

	case taskAddedMsg:
		if msg.err == nil && msg.date == p.date {
			p.cursor = msg.index
		}
		return p.LoadCmd()

	case taskUpdatedMsg, taskDeletedMsg:
		return p.LoadCmd()
	}

	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				text := strings.TrimSpace(p.input.Value())
				p.adding = false
				p.input.Reset()
				if text == "" {
					return nil
				}
				return addTaskCmd(p.store, p.date, text)

			case key.Matches(msg, p.inputKeys.Cancel):
				p.adding = false
				p.input.Reset()
				return nil
			}
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		n := len(p.log.Tasks)
		switch {
		case key.Matches(msg, p.keys.Down):
			if n > 0 {
				p.cursor = min(p.cursor+1, n-1)
			}

		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(n-1, 0)

		case key.Matches(msg, p.keys.PrevDay):
			return p.goTo(shiftDate(p.date, -1))

		case key.Matches(msg, p.keys.NextDay):
			return p.goTo(shiftDate(p.date, 1))

		case key.Matches(msg, p.keys.Today):
			return p.goTo(p.store.Today())

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.CycleStatus):
			if i, t, ok := p.Selected(); ok {
				return setStatusCmd(p.store, p.date, i, nextStatus(t.Status))
			}

		case key.Matches(msg, p.keys.CyclePriority):
			if i, t, ok := p.Selected(); ok {
				return setPriorityCmd(p.store, p.date, i, nextPriority(t.Priority))
			}

		case key.Matches(msg, p.keys.Delete):
			if i, t, ok := p.Selected(); ok {
				return deleteTaskCmd(p.store, p.date, i, t.Text)
			}
		}
	}

	return nil
}

// dayHeaderRows is the number of lines above the first task: title, tags and
// separator.
const dayHeaderRows = 3

func (p *DayPane) maxRows() int {
	rows := p.height - 8
	if rows < 3 {
		rows = 5
	}
	return rows
}

func (p *DayPane) windowStart() int {
	if maxRows := p.maxRows(); p.cursor >= maxRows {
		return p.cursor - maxRows + 1
	}
	return 0
}

// handleMouse processes mouse events for the day pane.
func (p *DayPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.log.Tasks) == 0 {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.log.Tasks)-1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - dayHeaderRows
		if row < 0 || row >= p.maxRows() {
			return nil
		}
		idx := p.windowStart() + row
		if idx >= len(p.log.Tasks) {
			return nil
		}
		p.cursor = idx
		// Clicking the status marker cycles it.
		if msg.X < 6 {
			return setStatusCmd(p.store, p.date, idx, nextStatus(p.log.Tasks[idx].Status))
		}
	}
	return nil
}

// View renders the day pane.
func (p *DayPane) View() string {
	var b strings.Builder
	contentWidth := max(p.width-4, 10)

	title := "📓 " + formatDayTitle(p.date)
	if p.date == p.store.Today() {
		title += " · today"
	}
	b.WriteString(p.styles.PaneTitleStyle.Render(title))
	b.WriteString("\n")

	if len(p.log.Tags) > 0 {
		b.WriteString(p.styles.TagStyle.Render(ansi.Truncate("#"+strings.Join(p.log.Tags, " #"), contentWidth, "…")))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", contentWidth)))
	b.WriteString("\n")

	if len(p.log.Tasks) == 0 && !p.adding {
		empty := "  No tasks for this day. Press 'a' to add one."
		if !p.exists {
			empty = "  Nothing logged yet. Press 'a' to add a task."
		}
		b.WriteString(p.styles.NoteStyle.Render(ansi.Truncate(empty, contentWidth, "…")))
		b.WriteString("\n")
	} else {
		start := p.windowStart()
		end := min(start+p.maxRows(), len(p.log.Tasks))
		for i := start; i < end; i++ {
			b.WriteString(p.renderTask(i, p.log.Tasks[i], contentWidth))
			b.WriteString("\n")
		}

		done, total := p.Stats()
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d done", done, total)))
		b.WriteString("\n")
	}

	if extras := p.extrasLine(); extras != "" {
		b.WriteString("  " + p.styles.NoteStyle.Render(extras))
		b.WriteString("\n")
	}

	if p.adding {
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("+ ") + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderTask draws one task line: priority badge, status marker, text.
func (p *DayPane) renderTask(i int, t model.Task, width int) string {
	// " " + badge + "[x]" + " "
	text := ansi.Truncate(t.Text, max(width-6, 5), "…")

	if i == p.cursor && p.focused && !p.adding {
		return p.styles.TaskSelectedStyle.Render(" " + p.styles.PriorityBadge(t.Priority) + p.styles.StatusMark(t.Status) + " " + text)
	}

	var styled string
	switch t.Status {
	case model.StatusCompleted:
		styled = p.styles.TaskDoneStyle.Render(text)
	case model.StatusCancelled:
		styled = p.styles.TaskCancelledStyle.Render(text)
	default:
		styled = p.styles.TaskPendingStyle.Render(text)
	}
	return " " + p.styles.PriorityBadge(t.Priority) + p.styles.StatusMark(t.Status) + " " + styled
}

func (p *DayPane) extrasLine() string {
	var parts []string
	if n := len(p.log.Events); n > 0 {
		parts = append(parts, plural(n, "event"))
	}
	if n := len(p.log.Notes); n > 0 {
		parts = append(parts, plural(n, "note"))
	}
	return strings.Join(parts, " · ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// shiftDate moves a YYYY-MM-DD date by days. An unparseable date is returned
// unchanged.
func shiftDate(date string, days int) string {
	t, err := time.Parse(streak.DateLayout, date)
	if err != nil {
		return date
	}
	return streak.DateKey(t.AddDate(0, 0, days))
}

func formatDayTitle(date string) string {
	t, err := time.Parse(streak.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 2, 2006")
}
