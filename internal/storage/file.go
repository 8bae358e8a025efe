package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"journal/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// FileBackend stores each key as <key>.json in a data directory. Writes are
// atomic and keep the previous contents in <key>.json.bak.
type FileBackend struct {
	dataDir string
	now     func() time.Time
}

// NewFile creates the data directory if needed and returns a backend rooted
// there.
func NewFile(dataDir string) (*FileBackend, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dataDir: dataDir, now: time.Now}, nil
}

// Dir returns the data directory.
func (f *FileBackend) Dir() string {
	return f.dataDir
}

// Path returns the file a key is stored in.
func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.dataDir, key+".json")
}

func (f *FileBackend) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileBackend) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	path := f.Path(key)
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, []byte(value), dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Quarantine moves the file for key to <key>.json.corrupt.<timestamp>.
func (f *FileBackend) Quarantine(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return fsutil.Quarantine(f.Path(key), f.now())
}
