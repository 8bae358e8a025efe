// Package fsutil contains the small file helpers the journal uses to keep its
// snapshot files intact across crashes.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// WriteFileAtomic replaces path with data. The bytes go to a temp file in the
// same directory which is fsynced and then renamed over path, so readers see
// either the old or the new contents.
//
// Windows refuses to rename over an existing file; there the destination is
// removed first, which is not atomic.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if runtime.GOOS != "windows" || !replaceOnWindows(tmpPath, path) {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
		}
	}
	return syncDir(dir)
}

func writeAndClose(f *os.File, data []byte, perm os.FileMode) error {
	name := f.Name()
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("fsync %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func replaceOnWindows(tmpPath, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		return false
	}
	return os.Rename(tmpPath, path) == nil
}

// BestEffortBackup copies the current contents of path to path+".bak".
// Failures are ignored; a missing path is not an error.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = WriteFileAtomic(path+".bak", data, perm)
}

// Quarantine moves path aside to path.corrupt.<timestamp> so the next write
// does not destroy it. It returns the new location.
func Quarantine(path string, at time.Time) (string, error) {
	dst := fmt.Sprintf("%s.corrupt.%s", path, at.Format("20060102-150405"))
	if err := os.Rename(path, dst); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("quarantine %s: %w", path, err)
	}
	return dst, nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		// Some platforms (Windows) cannot open directories.
		return nil
	}
	defer f.Close()
	_ = f.Sync()
	return nil
}
