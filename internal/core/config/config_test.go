package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(filepath.Join(dir, "nope.yaml"), dir)
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Identity.ID)
		assert.Equal(t, "local", cfg.Identity.Name)
		assert.Equal(t, []string{"manage_tasks"}, cfg.Capabilities)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5000, cfg.Database.BusyTimeout)
		assert.Equal(t, 200, cfg.Board.TaskLimit)
		assert.Equal(t, 500, cfg.Board.TimeEntryLimit)
		assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
		assert.Equal(t, dir, cfg.DataDir)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
identity:
  id: ana
  name: Ana
capabilities: []
board:
  task_limit: 50
tui:
  theme: gruvbox
`), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "ana", cfg.Identity.ID)
		assert.Equal(t, "Ana", cfg.Identity.Name)
		assert.Empty(t, cfg.Capabilities, "explicit empty capabilities stay empty")
		assert.Equal(t, 50, cfg.Board.TaskLimit)
		assert.Equal(t, "gruvbox", cfg.TUI.Theme)
		assert.Equal(t, 500, cfg.Board.TimeEntryLimit, "unset fields still get defaults")
	})

	t.Run("name defaults to id", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("identity:\n  id: ben\n"), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)
		assert.Equal(t, "ben", cfg.Identity.Name)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("identity: [not a map"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
	})

	t.Run("unknown theme rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: neon-zebra\n"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tui.theme")
	})

	t.Run("negative tuning rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  busy_timeout: -1\n"), 0o644))

		_, err := Load(path, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.busy_timeout")
	})
}
