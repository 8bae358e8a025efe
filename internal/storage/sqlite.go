package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores values in a single kv table. The database is opened
// for each call and closed before returning.
type SQLiteBackend struct {
	path    string
	timeout time.Duration
}

// NewSQLite prepares the database at path, creating the file and schema if
// they do not exist yet.
func NewSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &SQLiteBackend{path: path, timeout: 10 * time.Second}

	ctx, cancel := s.context()
	defer cancel()
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	return s, nil
}

// Path returns the database file.
func (s *SQLiteBackend) Path() string {
	return s.path
}

func (s *SQLiteBackend) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *SQLiteBackend) open(ctx context.Context) (*sql.DB, error) {
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	const schema = `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", s.path, err)
	}
	return db, nil
}

func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	ctx, cancel := s.context()
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		return "", false, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteBackend) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	ctx, cancel := s.context()
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO kv (k, v, updated_at_unixms) VALUES (?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Quarantine copies the value for key under <key>.corrupt.<timestamp> and
// removes the original row.
func (s *SQLiteBackend) Quarantine(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	ctx, cancel := s.context()
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	dst := fmt.Sprintf("%s.corrupt.%s", key, now.Format("20060102-150405"))
	res, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (k, v, updated_at_unixms) SELECT ?, v, ? FROM kv WHERE k = ?`,
		dst, now.UnixMilli(), key)
	if err != nil {
		return "", fmt.Errorf("quarantine %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return dst, nil
}
