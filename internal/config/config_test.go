package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
)

func TestLoadWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, constants.DefaultStore, cfg.Store)
	assert.Equal(t, constants.DefaultSchedule, cfg.BackupSchedule)
	assert.Equal(t, constants.DefaultKeepDays, cfg.CleanupDays)
	assert.False(t, cfg.Debug)

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	var written map[string]any
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, constants.DefaultStore, written[KeyStore])
	assert.Equal(t, constants.DefaultSchedule, written[KeyBackupSchedule])
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"store": "file", "path": "/tmp/data.json", "debug": true, "cleanup_days": 30, "backup_schedule": "@daily"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, constants.StoreFile, cfg.Store)
	assert.Equal(t, "/tmp/data.json", cfg.Path)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30, cfg.CleanupDays)
	assert.Equal(t, "@daily", cfg.BackupSchedule)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("METAFLOW_STORE", "memory")
	t.Setenv("METAFLOW_CLEANUP_DAYS", "7")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, constants.StoreMemory, cfg.Store)
	assert.Equal(t, 7, cfg.CleanupDays)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown store", `{"store": "mongo"}`},
		{"negative cleanup", `{"cleanup_days": -1}`},
		{"bad schedule", `{"backup_schedule": "every tuesday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(tt.content), 0600))

			_, err := Load(dir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalid))
		})
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{Dir: t.TempDir(), Store: constants.StoreSQLite, BackupSchedule: constants.DefaultSchedule}

	require.NoError(t, cfg.Apply(Overrides{Store: "FILE", Path: "x.json", Debug: true}))
	assert.Equal(t, constants.StoreFile, cfg.Store)
	assert.Equal(t, "x.json", cfg.Path)
	assert.True(t, cfg.Debug)

	require.NoError(t, cfg.Apply(Overrides{}))
	assert.Equal(t, constants.StoreFile, cfg.Store, "empty overrides leave values alone")

	assert.Error(t, cfg.Apply(Overrides{Store: "nope"}))
}

func TestStorePath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		store string
		path  string
		want  string
	}{
		{"sqlite default", constants.StoreSQLite, "", filepath.Join(dir, constants.DefaultDBName)},
		{"file default", constants.StoreFile, "", filepath.Join(dir, constants.DefaultFileName)},
		{"explicit path", constants.StoreFile, "/data/x.json", "/data/x.json"},
		{"postgres verbatim", constants.StorePostgres, "host=localhost dbname=metaflow", "host=localhost dbname=metaflow"},
		{"memory", constants.StoreMemory, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Dir: dir, Store: tt.store, Path: tt.path}
			got, err := cfg.StorePath()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.config/metaflow")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/metaflow"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
