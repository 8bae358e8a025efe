// Package ui is the journal's terminal dashboard. It shows one day's tasks
// next to the habit tracker and drives the journal through Bubble Tea
// commands so the event loop never blocks on storage.
//
// This file defines key bindings using the Bubble Tea key package. Every
// binding can be overridden from the keys section of the config file.
package ui

import (
	"strings"

	"journal/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// helpLabel is the key shown in help text: the default label, or the
// configured keys joined with "/".
func helpLabel(customKeys, defaultLabel string) string {
	if customKeys == "" {
		return defaultLabel
	}
	return strings.Join(parseKeys(customKeys), "/")
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp(helpLabel(cfg.Quit, "q"), "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp(helpLabel(cfg.Help, "?"), "help"),
		),
		NextPane: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextPane, "tab")...),
			key.WithHelp(helpLabel(cfg.NextPane, "tab"), "pane"),
		),
		Pane1: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane1, "1")...),
			key.WithHelp(helpLabel(cfg.Pane1, "1"), "day"),
		),
		Pane2: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane2, "2")...),
			key.WithHelp(helpLabel(cfg.Pane2, "2"), "habits"),
		),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp(helpLabel(cfg.Up, "k/↑"), "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp(helpLabel(cfg.Down, "j/↓"), "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp(helpLabel(cfg.Top, "g"), "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp(helpLabel(cfg.Bottom, "G"), "bottom"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp(helpLabel(cfg.Confirm, "enter"), "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp(helpLabel(cfg.Cancel, "esc"), "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k InputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k InputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// =============================================================================
// Day Pane Keys
// =============================================================================

// DayKeyMap defines keys for the day pane.
type DayKeyMap struct {
	Add           key.Binding
	CycleStatus   key.Binding
	CyclePriority key.Binding
	Delete        key.Binding
	PrevDay       key.Binding
	NextDay       key.Binding
	Today         key.Binding
	NavigationKeyMap
}

// NewDayKeyMap creates day pane key bindings from config.
func NewDayKeyMap(cfg *config.KeysConfig) DayKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return DayKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTask, "a")...),
			key.WithHelp(helpLabel(cfg.AddTask, "a"), "add"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CycleStatus, "d", "enter", " ")...),
			key.WithHelp(helpLabel(cfg.CycleStatus, "d"), "status"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CyclePriority, "p")...),
			key.WithHelp(helpLabel(cfg.CyclePriority, "p"), "priority"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteTask, "x")...),
			key.WithHelp(helpLabel(cfg.DeleteTask, "x"), "del"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevDay, "h", "left")...),
			key.WithHelp(helpLabel(cfg.PrevDay, "h/←"), "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextDay, "l", "right")...),
			key.WithHelp(helpLabel(cfg.NextDay, "l/→"), "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Today, "t")...),
			key.WithHelp(helpLabel(cfg.Today, "t"), "today"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the day pane (implements help.KeyMap).
func (k DayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.CycleStatus, k.CyclePriority, k.Delete, k.PrevDay, k.NextDay}
}

// FullHelp returns the full help for the day pane (implements help.KeyMap).
func (k DayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.CycleStatus, k.CyclePriority, k.Delete},
		{k.PrevDay, k.NextDay, k.Today},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Habits Pane Keys
// =============================================================================

// HabitKeyMap defines keys for the habits pane.
type HabitKeyMap struct {
	Toggle key.Binding
	NavigationKeyMap
}

// NewHabitKeyMap creates habit key bindings from config.
func NewHabitKeyMap(cfg *config.KeysConfig) HabitKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HabitKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleHabit, " ", "enter", "d")...),
			key.WithHelp(helpLabel(cfg.ToggleHabit, "space"), "toggle"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the habit pane (implements help.KeyMap).
func (k HabitKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Up, k.Down}
}

// FullHelp returns the full help for the habit pane (implements help.KeyMap).
func (k HabitKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
