package stores

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskwise/internal/core/task"
)

func TestIsCorruptionError(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
	assert.False(t, IsCorruptionError(errors.New("no such table: tasks")))
}

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("database disk image is malformed")))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.False(t, IsNotFoundError(errors.New("boom")))
}

func TestRecoverFromCorruption(t *testing.T) {
	t.Run("backs up database with wal and shm", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "taskwise.db")
		require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm"), 0o644))

		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "taskwise.db.corrupt.*"))
		require.NoError(t, err)
		assert.Len(t, backups, 3)

		// the originals must be gone, or SQLite would pair a fresh database
		// with stale WAL/SHM files
		for _, orig := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			_, err := os.Stat(orig)
			assert.True(t, os.IsNotExist(err), "%s should have been moved", orig)
		}
	})

	t.Run("missing database is not an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "*.corrupt.*"))
		require.NoError(t, err)
		assert.Empty(t, backups)
	})

	t.Run("database without wal or shm", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taskwise.db"), []byte("garbage"), 0o644))

		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "taskwise.db.corrupt.*"))
		require.NoError(t, err)
		assert.Len(t, backups, 1)
	})

	t.Run("orphaned wal is backed up", func(t *testing.T) {
		dir := t.TempDir()
		walPath := filepath.Join(dir, "taskwise.db-wal")
		require.NoError(t, os.WriteFile(walPath, []byte("wal"), 0o644))

		require.NoError(t, RecoverFromCorruption(dir))

		backups, err := filepath.Glob(filepath.Join(dir, "*.corrupt.*-wal"))
		require.NoError(t, err)
		assert.Len(t, backups, 1)

		_, err = os.Stat(walPath)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestOpenRecoversFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "taskwise.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("this is not a sqlite database"), 0o644))

	database, err := Open(dir)
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// the corrupt file was moved aside, not deleted
	backups, err := filepath.Glob(filepath.Join(dir, "taskwise.db.corrupt.*"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// and the fresh database is usable
	ctx := context.Background()
	store := NewTaskStore(database)
	item := task.Task{Text: "rebuilt after recovery"}
	require.NoError(t, store.Create(ctx, &item))

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "rebuilt after recovery", got.Text)
}
