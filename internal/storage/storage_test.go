package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one fresh instance of every implementation.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	file, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	db, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	return map[string]Backend{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackend_GetMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := b.Get(DefaultKey)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestBackend_SetThenGet(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Set(DefaultKey, `{"a":1}`))
			require.NoError(t, b.Set(DefaultKey, `{"a":2}`))
			require.NoError(t, b.Set("other", "x"))

			v, ok, err := b.Get(DefaultKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":2}`, v)

			v, ok, err = b.Get("other")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "x", v)
		})
	}
}

func TestBackend_RejectsBadKeys(t *testing.T) {
	file, err := NewFile(t.TempDir())
	require.NoError(t, err)
	db, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)

	for name, b := range map[string]Backend{"file": file, "sqlite": db} {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "../escape", `a\b`, ".."} {
				err := b.Set(key, "x")
				assert.True(t, errors.Is(err, ErrInvalidKey), "key %q: %v", key, err)
			}
		})
	}
}

func TestFileBackend_KeepsBackup(t *testing.T) {
	b, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, b.Set("journal", "first"))
	require.NoError(t, b.Set("journal", "second"))

	bak, err := os.ReadFile(b.Path("journal") + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "first", string(bak))
}

func TestQuarantine(t *testing.T) {
	file, err := NewFile(t.TempDir())
	require.NoError(t, err)
	db, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)

	for name, b := range map[string]Backend{"file": file, "sqlite": db} {
		t.Run(name, func(t *testing.T) {
			q, ok := b.(Quarantiner)
			require.True(t, ok)

			dst, err := q.Quarantine("journal")
			require.NoError(t, err)
			assert.Empty(t, dst, "nothing to move yet")

			require.NoError(t, b.Set("journal", "{broken"))
			dst, err = q.Quarantine("journal")
			require.NoError(t, err)
			assert.Contains(t, dst, "journal")
			assert.Contains(t, dst, ".corrupt.")

			_, ok, err = b.Get("journal")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryBackend_FailureInjection(t *testing.T) {
	m := NewMemory()
	boom := errors.New("quota exceeded")

	m.SetErr = boom
	assert.ErrorIs(t, m.Set("k", "v"), boom)
	assert.Equal(t, 0, m.Sets())

	m.SetErr = nil
	require.NoError(t, m.Set("k", "v"))
	assert.Equal(t, 1, m.Sets())

	m.GetErr = boom
	_, _, err := m.Get("k")
	assert.ErrorIs(t, err, boom)
}

func TestSQLiteBackend_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.sqlite")

	a, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, a.Set(DefaultKey, "snapshot"))

	b, err := NewSQLite(path)
	require.NoError(t, err)
	v, ok, err := b.Get(DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "snapshot", v)
}
