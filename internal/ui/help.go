package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders the keyboard reference from the live key maps, so
// rebound keys show up as configured.
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global GlobalKeyMap
	day    DayKeyMap
	habits HabitKeyMap
	input  InputKeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, day DayKeyMap, habits HabitKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		global: global,
		day:    day,
		habits: habits,
		input:  input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	section := func(name string, bindings ...key.Binding) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kb := range bindings {
			if !kb.Enabled() {
				continue
			}
			b.WriteString(keyStyle.Render(kb.Help().Key) + descStyle.Render(kb.Help().Desc) + "\n")
		}
	}

	b.WriteString(titleStyle.Render("📖 journal - Keyboard Shortcuts"))
	b.WriteString("\n")

	g := h.global
	section("Global", g.NextPane, g.Pane1, g.Pane2, g.Help, g.Quit)

	d := h.day
	section("Day", d.Add, d.CycleStatus, d.CyclePriority, d.Delete, d.PrevDay, d.NextDay, d.Today, d.Up, d.Down, d.Top, d.Bottom)

	section("Habits", h.habits.Toggle, h.habits.Up, h.habits.Down)

	section("Input Mode", h.input.Confirm, h.input.Cancel)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(b.String()))
}
