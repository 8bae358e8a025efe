package ui

import (
	"fmt"
	"strings"
	"time"

	"journal/internal/config"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneDay PaneID = iota
	PaneHabits
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows both panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
	StatsDays             int
}

// AppConfigFrom builds an AppConfig from the loaded configuration.
func AppConfigFrom(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		StatsDays:             cfg.UX.StatsDays,
	}
}

// App is the main application model that coordinates both panes.
type App struct {
	store       *Store
	styles      *Styles
	config      *AppConfig
	dayPane     *DayPane
	habitsPane  *HabitsPane
	helpOverlay *HelpOverlay
	help        help.Model
	confirmDel  *confirmDeleteState
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	keys      GlobalKeyMap
	helpKeys  HelpKeyMap
	inputKeys InputKeyMap

	// Pane positions for mouse click detection
	dayPaneEnd      int
	habitsPaneStart int
	contentTop      int
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init().
func NewApp(store *Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			StatsDays:             30,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	dayPane := NewDayPane(store, styles, cfg.Keys)
	habitsPane := NewHabitsPane(store, styles, cfg.Keys, cfg.StatsDays)

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle

	keys := NewGlobalKeyMap(cfg.Keys)
	inputKeys := NewInputKeyMap(cfg.Keys)

	dayPane.SetFocused(true)
	habitsPane.SetFocused(false)

	return &App{
		store:       store,
		styles:      styles,
		config:      cfg,
		dayPane:     dayPane,
		habitsPane:  habitsPane,
		helpOverlay: NewHelpOverlay(styles, keys, dayPane.keys, habitsPane.keys, inputKeys),
		help:        h,
		activePane:  PaneDay,
		keys:        keys,
		helpKeys:    DefaultHelpKeyMap(),
		inputKeys:   inputKeys,
	}
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init loads both panes asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		a.dayPane.LoadCmd(),
		a.habitsPane.LoadCmd(),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of journal operations go to their pane regardless of focus.
	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Load "+msg.date+": "+msg.err.Error(), true)
		}
		return a, a.dayPane.Update(msg)

	case taskAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add task: "+msg.err.Error(), true)
		}
		return a, a.dayPane.Update(msg)

	case taskUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Update task: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Task → "+msg.desc, false)
		}
		return a, a.dayPane.Update(msg)

	case taskDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete task: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Deleted: "+ansi.Truncate(msg.text, 40, "…"), false)
		}
		return a, a.dayPane.Update(msg)

	case habitsLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Habits: "+msg.err.Error(), true)
		}
		return a, a.habitsPane.Update(msg)

	case habitToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle habit: "+msg.err.Error(), true)
		} else if msg.done {
			a.SetStatus(msg.name+" done for "+msg.date, false)
		} else {
			a.SetStatus(msg.name+" unlogged for "+msg.date, false)
		}
		return a, a.habitsPane.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirmDel.cmd
				a.confirmDel = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
			}
			return a, nil
		}

		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.dayPane.IsAdding() {
			if a.config.ConfirmDeletions && a.activePane == PaneDay && key.Matches(msg, a.dayPane.keys.Delete) {
				i, task, ok := a.dayPane.Selected()
				if !ok {
					a.SetStatus("No task selected", true)
					return a, nil
				}
				a.confirmDel = &confirmDeleteState{
					title: "Delete task?",
					body:  ansi.Truncate(task.Text, 60, "…"),
					cmd:   deleteTaskCmd(a.store, a.dayPane.Date(), i, task.Text),
				}
				return a, nil
			}

			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneDay)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneHabits)
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Time(msg).After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	if a.showHelp {
		return a, nil
	}
	switch a.activePane {
	case PaneHabits:
		return a, a.habitsPane.Update(msg)
	default:
		return a, a.dayPane.Update(msg)
	}
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.confirmDel != nil || a.showHelp {
		if msg.Action == tea.MouseActionPress {
			if a.confirmDel != nil {
				a.SetStatus("Canceled", false)
			}
			a.confirmDel = nil
			a.showHelp = false
		}
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			if msg.X < a.width/2 {
				a.setActivePane(PaneDay)
			} else {
				a.setActivePane(PaneHabits)
			}
			return nil
		}
		if pane, ok := a.paneAtPosition(msg.X); ok && pane != a.activePane {
			a.setActivePane(pane)
		}
	}

	if msg.Y < a.contentTop {
		return nil
	}
	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide && a.activePane == PaneHabits {
		local.X = msg.X - a.habitsPaneStart
	}
	if a.activePane == PaneHabits {
		return a.habitsPane.Update(local)
	}
	return a.dayPane.Update(local)
}

func (a *App) switchPane() {
	if a.activePane == PaneDay {
		a.setActivePane(PaneHabits)
		return
	}
	a.setActivePane(PaneDay)
}

func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.dayPane.SetFocused(pane == PaneDay)
	a.habitsPane.SetFocused(pane == PaneHabits)
}

// paneAtPosition returns which pane is at the given X coordinate.
func (a *App) paneAtPosition(x int) (PaneID, bool) {
	if a.layoutMode == LayoutNarrow {
		return a.activePane, true
	}
	switch {
	case x >= 0 && x < a.dayPaneEnd:
		return PaneDay, true
	case x >= a.habitsPaneStart:
		return PaneHabits, true
	}
	return 0, false
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Title bar (1) and help bar (1), plus pane borders.
	contentHeight := max(a.height-4, 10)
	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)
	a.help.Width = a.width

	totalWidth := a.width - 4
	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		paneWidth := max(totalWidth, 20)
		paneHeight := max(contentHeight-1, 8)
		a.dayPane.SetSize(paneWidth, paneHeight)
		a.habitsPane.SetSize(paneWidth, paneHeight)
		a.dayPaneEnd = a.width
		a.habitsPaneStart = 0
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide
	dayWidth := totalWidth * 55 / 100
	if totalWidth >= 120 {
		dayWidth = min(dayWidth, 70)
	}
	habitsWidth := totalWidth - dayWidth - 1
	a.dayPane.SetSize(dayWidth, contentHeight)
	a.habitsPane.SetSize(habitsWidth, contentHeight)
	a.dayPaneEnd = dayWidth
	a.habitsPaneStart = dayWidth + 1
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	if a.layoutMode == LayoutNarrow {
		b.WriteString(a.renderPaneTabs())
		b.WriteString("\n")
		if a.activePane == PaneHabits {
			b.WriteString(a.habitsPane.View())
		} else {
			b.WriteString(a.dayPane.View())
		}
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, a.dayPane.View(), " ", a.habitsPane.View()))
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(a.styles.TaskPendingStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(a.styles.HelpStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(b.String()))
}

func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneDay, "Day"},
		{PaneHabits, "Habits"},
	}

	activeTabStyle := lipgloss.NewStyle().Foreground(a.styles.ColorPrimary).Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	if padding := (a.width - lipgloss.Width(tabBar)) / 2; padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

func (a *App) renderGoodbye() string {
	tasksDone, tasksTotal := a.dayPane.Stats()
	habitsDone, habitsTotal := a.habitsPane.TodayCompletion()

	var b strings.Builder
	b.WriteString("\n  See you tomorrow!\n\n")
	if tasksTotal > 0 || habitsTotal > 0 {
		fmt.Fprintf(&b, "  %s:\n", a.dayPane.Date())
		if tasksTotal > 0 {
			fmt.Fprintf(&b, "     Tasks:  %d/%d (%d%%)\n", tasksDone, tasksTotal, tasksDone*100/tasksTotal)
		}
		if habitsTotal > 0 {
			fmt.Fprintf(&b, "     Habits: %d/%d (%d%%)\n", habitsDone, habitsTotal, habitsDone*100/habitsTotal)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTitleBar creates the top title bar with the day's progress.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" journal ")

	tasksDone, tasksTotal := a.dayPane.Stats()
	habitsDone, habitsTotal := a.habitsPane.TodayCompletion()

	var statsItems []string
	if tasksTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Tasks: %d/%d", tasksDone, tasksTotal))
	}
	if habitsTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Habits: %d/%d", habitsDone, habitsTotal))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))

	date := a.styles.DateStyle.Render(a.store.Now().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(date) + 2
	spacer := strings.Repeat(" ", max(a.width-used, 2))
	return title + "  " + stats + spacer + date
}

// renderHelpBar shows the status message or the active key hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.dayPane.IsAdding() {
		return a.help.ShortHelpView(a.inputKeys.ShortHelp())
	}

	var bindings []key.Binding
	if a.activePane == PaneHabits {
		bindings = a.habitsPane.keys.ShortHelp()
	} else {
		bindings = a.dayPane.keys.ShortHelp()
	}
	bindings = append(bindings, a.keys.NextPane, a.keys.Help, a.keys.Quit)
	return a.help.ShortHelpView(bindings)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program over store.
func Run(store *Store, styles *Styles, cfg *AppConfig) error {
	p := tea.NewProgram(NewApp(store, styles, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
