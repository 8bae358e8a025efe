// Package config handles configuration loading and defaults for journal.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/journal/config.yaml).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"journal/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// EnvDataDir overrides data_dir when set.
const EnvDataDir = "JOURNAL_DATA_DIR"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.journal)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects where the journal snapshot lives
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Log controls diagnostic output on stderr
	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Backup configures snapshot retention
	Backup BackupConfig `yaml:"backup,omitempty"`

	// Reports configures terminal rendering of reports
	Reports ReportsConfig `yaml:"reports,omitempty"`

	// Notify configures desktop habit reminders
	Notify NotifyConfig `yaml:"notify,omitempty"`
}

// StorageConfig selects and names the storage backend.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite"
	Backend string `yaml:"backend,omitempty"`

	// Key is the name the snapshot is stored under
	Key string `yaml:"key,omitempty"`

	// SQLiteFile is the database file name, relative to the data directory
	SQLiteFile string `yaml:"sqlite_file,omitempty"`
}

// LogConfig controls the slog handler installed by the CLI.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json"
	Format string `yaml:"format,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"

	// Navigation keys
	Up      string `yaml:"up,omitempty"`       // default: "k,up"
	Down    string `yaml:"down,omitempty"`     // default: "j,down"
	Top     string `yaml:"top,omitempty"`      // default: "g"
	Bottom  string `yaml:"bottom,omitempty"`   // default: "G"
	PrevDay string `yaml:"prev_day,omitempty"` // default: "h,left"
	NextDay string `yaml:"next_day,omitempty"` // default: "l,right"
	Today   string `yaml:"today,omitempty"`    // default: "t"

	// Task keys
	AddTask       string `yaml:"add_task,omitempty"`       // default: "a"
	CycleStatus   string `yaml:"cycle_status,omitempty"`   // default: "d,enter,space"
	CyclePriority string `yaml:"cycle_priority,omitempty"` // default: "p"
	DeleteTask    string `yaml:"delete_task,omitempty"`    // default: "x"

	// Habit keys
	ToggleHabit string `yaml:"toggle_habit,omitempty"` // default: "d,enter,space"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions asks before deleting tasks in the TUI
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80

	// StatsDays is the window used for habit completion rates
	StatsDays int `yaml:"stats_days,omitempty"` // default: 30
}

// BackupConfig defines snapshot retention.
type BackupConfig struct {
	// Keep is how many snapshots prune retains
	Keep int `yaml:"keep,omitempty"` // default: 10

	// BeforeImport takes a snapshot before every import or restore
	BeforeImport bool `yaml:"before_import,omitempty"` // default: true
}

// ReportsConfig defines how Markdown reports are rendered on a terminal.
type ReportsConfig struct {
	// Style is a glamour standard style: dark, light, notty, ascii
	Style string `yaml:"style,omitempty"` // default: "dark"

	// Width is the word-wrap width
	Width int `yaml:"width,omitempty"` // default: 80
}

// NotifyConfig defines desktop notification settings.
type NotifyConfig struct {
	// Enabled makes "habit remind" send a desktop notification
	Enabled bool `yaml:"enabled,omitempty"` // default: false

	// Sound asks the notification daemon to play a sound
	Sound bool `yaml:"sound,omitempty"` // default: false
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend:    BackendFile,
			Key:        "bullet-journal-data",
			SQLiteFile: "journal.sqlite",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			StatsDays:             30,
		},
		Backup: BackupConfig{
			Keep:         10,
			BeforeImport: true,
		},
		Reports: ReportsConfig{
			Style: "dark",
			Width: 80,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".journal"
	}
	return filepath.Join(home, ".journal")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "journal")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "journal")
}

// Path returns the default path of the config file, or "" if no home
// directory can be determined.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path, merging with defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings that cannot be acted on.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Storage.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup.keep must be at least 1, got %d", c.Backup.Keep)
	}
	return nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	setString(&c.DataDir, other.DataDir)

	setString(&c.Storage.Backend, other.Storage.Backend)
	setString(&c.Storage.Key, other.Storage.Key)
	setString(&c.Storage.SQLiteFile, other.Storage.SQLiteFile)

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.Format, other.Log.Format)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Background, other.Theme.Background)
	setString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	setString(&k.Quit, o.Quit)
	setString(&k.Help, o.Help)
	setString(&k.NextPane, o.NextPane)
	setString(&k.Pane1, o.Pane1)
	setString(&k.Pane2, o.Pane2)
	setString(&k.Up, o.Up)
	setString(&k.Down, o.Down)
	setString(&k.Top, o.Top)
	setString(&k.Bottom, o.Bottom)
	setString(&k.PrevDay, o.PrevDay)
	setString(&k.NextDay, o.NextDay)
	setString(&k.Today, o.Today)
	setString(&k.AddTask, o.AddTask)
	setString(&k.CycleStatus, o.CycleStatus)
	setString(&k.CyclePriority, o.CyclePriority)
	setString(&k.DeleteTask, o.DeleteTask)
	setString(&k.ToggleHabit, o.ToggleHabit)
	setString(&k.Confirm, o.Confirm)
	setString(&k.Cancel, o.Cancel)

	setInt(&c.UX.NarrowLayoutThreshold, other.UX.NarrowLayoutThreshold)
	setInt(&c.UX.StatsDays, other.UX.StatsDays)

	setInt(&c.Backup.Keep, other.Backup.Keep)

	setString(&c.Reports.Style, other.Reports.Style)
	setInt(&c.Reports.Width, other.Reports.Width)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree we cannot tell an explicit false from an omitted key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "backup", "before_import") {
		c.Backup.BeforeImport = other.Backup.BeforeImport
	}
	if yamlHasPath(doc, "notify", "enabled") {
		c.Notify.Enabled = other.Notify.Enabled
	}
	if yamlHasPath(doc, "notify", "sound") {
		c.Notify.Sound = other.Notify.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path. JOURNAL_DATA_DIR wins
// over the configured value.
func (c *Config) GetDataDir() string {
	dir := c.DataDir
	if env := os.Getenv(EnvDataDir); env != "" {
		dir = env
	}
	if dir == "" {
		return defaultDataDir()
	}
	return expandHome(dir)
}

// SQLitePath returns the database file for the sqlite backend.
func (c *Config) SQLitePath() string {
	if filepath.IsAbs(c.Storage.SQLiteFile) {
		return c.Storage.SQLiteFile
	}
	return filepath.Join(c.GetDataDir(), c.Storage.SQLiteFile)
}

// BackupDir returns the directory snapshots are written to.
func (c *Config) BackupDir() string {
	return filepath.Join(c.GetDataDir(), "backups")
}

func expandHome(dir string) string {
	if dir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return dir
	}
	if strings.HasPrefix(dir, "~/") || strings.HasPrefix(dir, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			trimmed := strings.TrimPrefix(dir, "~/")
			trimmed = strings.TrimPrefix(trimmed, `~\`)
			trimmed = strings.TrimPrefix(trimmed, `\`)
			return filepath.Join(home, trimmed)
		}
	}
	return dir
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
	return l, nil
}
