package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(errors.New("not a sqlite error")))
	assert.False(t, IsBusyError(sql.ErrNoRows))
}

func TestIsCorruptionError(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
	assert.False(t, IsCorruptionError(errors.New("no such table: tasks")))
}

func TestRecoverFromCorruption(t *testing.T) {
	t.Run("backs up database and sidecar files", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "taskboard.db")

		require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm data"), 0o644))

		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "taskboard.db.corrupt.*"))
		require.NoError(t, err)
		assert.Len(t, backups, 3, "db, wal, and shm all backed up")

		for _, orig := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			_, err := os.Stat(orig)
			assert.Error(t, err, "%s should have been moved", orig)
		}
	})

	t.Run("missing database is not an error", func(t *testing.T) {
		dir := t.TempDir()

		require.NoError(t, RecoverFromCorruption(dir))

		backups, _ := filepath.Glob(filepath.Join(dir, "*.corrupt.*"))
		assert.Empty(t, backups)
	})

	t.Run("database without sidecar files", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "taskboard.db")
		require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))

		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "taskboard.db.corrupt.*"))
		require.NoError(t, err)
		assert.Len(t, backups, 1)
	})
}
