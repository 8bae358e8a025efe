// Package backup keeps timestamped snapshots of the journal next to its data
// directory and restores them on request.
//
// Each backup is a directory named after its creation time holding the
// exported journal document and a manifest describing it.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"journal/internal/fsutil"
	"journal/internal/journal"

	"github.com/google/uuid"
)

// Layout of a backup directory.
const (
	ManifestVersion = "2"
	ManifestFile    = "manifest.json"
	SnapshotFile    = "journal.json"
)

const nameLayout = "2006-01-02_150405"

// ErrNotFound is returned for a backup name with no directory behind it.
var ErrNotFound = errors.New("backup not found")

// Source is what a Manager snapshots and restores into.
type Source interface {
	ExportData() ([]byte, error)
	ImportData(data []byte) error
	Counts() journal.Counts
}

// Manager handles backup and restore operations.
type Manager struct {
	backupDir  string
	src        Source
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Reason     string         `json:"reason,omitempty"`
	Files      []string       `json:"files"`
	Stats      journal.Counts `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string // 2025-12-15_143022_123
	ID        string
	Path      string
	CreatedAt time.Time
	Reason    string
	Stats     journal.Counts
}

// NewManager creates a backup manager writing into backupDir.
func NewManager(backupDir string, src Source, appVersion string) *Manager {
	return &Manager{
		backupDir:  backupDir,
		src:        src,
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups. Passing nil resets it.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		m.now = time.Now
		return
	}
	m.now = now
}

// Dir returns the directory backups are written to.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the journal and returns the backup name. reason is
// recorded in the manifest ("manual", "pre-import", "pre-restore", ...).
func (m *Manager) Create(reason string) (string, error) {
	data, err := m.src.ExportData()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name, backupPath, createdAt, err := m.reserve()
	if err != nil {
		return "", err
	}

	if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, SnapshotFile), data, 0600); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		ID:         uuid.NewString(),
		CreatedAt:  createdAt,
		AppVersion: m.appVersion,
		Reason:     reason,
		Files:      []string{SnapshotFile},
		Stats:      m.src.Counts(),
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserve creates a fresh backup directory. Names carry milliseconds; when
// two backups land in the same millisecond the later one is pushed forward.
func (m *Manager) reserve() (string, string, time.Time, error) {
	now := m.now().Truncate(time.Millisecond)
	for range 1000 {
		name := formatBackupName(now)
		path := filepath.Join(m.backupDir, name)
		err := os.Mkdir(path, 0700)
		if err == nil {
			return name, path, now, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", time.Time{}, fmt.Errorf("failed to create backup: %w", err)
		}
		now = now.Add(time.Millisecond)
	}
	return "", "", time.Time{}, fmt.Errorf("failed to create backup: no free name near %s", formatBackupName(now))
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m.info(name)
}

// info reads a backup's manifest, falling back to the timestamp in its name
// when the manifest is missing or unreadable.
func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest = Manifest{CreatedAt: createdAt}
	}

	return &BackupInfo{
		Name:      name,
		ID:        manifest.ID,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Reason:    manifest.Reason,
		Stats:     manifest.Stats,
	}, nil
}

// Restore replaces the journal with the snapshot in backup name. A safety
// backup of the current journal is taken first; its name is returned so a
// bad restore can be undone.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(backupPath, SnapshotFile))
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot of %s: %w", name, err)
	}

	safetyName, err := m.Create("pre-restore")
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	if err := m.src.ImportData(data); err != nil {
		return safetyName, fmt.Errorf("restore %s (safety backup: %s): %w", name, safetyName, err)
	}
	return safetyName, nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() (string, string, error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", fmt.Errorf("%w: no backups available", ErrNotFound)
	}

	name := backups[0].Name
	safetyName, err := m.Restore(name)
	return name, safetyName, err
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the keepCount most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Helper functions

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func formatBackupName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
}

// parseBackupName parses a backup directory name into a timestamp. Names
// without the millisecond suffix are accepted too.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == len(nameLayout)+4 {
		base, err := time.Parse(nameLayout, name[:len(nameLayout)])
		if err != nil {
			return time.Time{}, err
		}
		if name[len(nameLayout)] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[len(nameLayout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Parse(nameLayout, name)
}
