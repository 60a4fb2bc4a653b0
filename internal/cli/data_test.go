package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
)

func seedHabit(t *testing.T, ctx *Context, name string) {
	t.Helper()
	_, err := ctx.Services.Habits.Save(context.Background(), models.Habit{Name: name})
	require.NoError(t, err)
}

func TestDataExportImport(t *testing.T) {
	src, _ := setupContext(t, "")
	seedHabit(t, src, "Read")

	for _, name := range []string{"export.json", "export.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, (&DataExportCmd{Output: path}).Run(src))

			dst, out := setupContext(t, "y\n")
			seedHabit(t, dst, "Stale")
			require.NoError(t, (&DataImportCmd{File: path}).Run(dst))
			assert.Contains(t, out.String(), "Imported "+path)

			habits := dst.Services.Habits.List(context.Background())
			require.Len(t, habits, 1)
			assert.Equal(t, "Read", habits[0].Name)
		})
	}
}

func TestDataImportCancelled(t *testing.T) {
	src, _ := setupContext(t, "")
	seedHabit(t, src, "Read")
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, (&DataExportCmd{Output: path}).Run(src))

	dst, out := setupContext(t, "n\n")
	seedHabit(t, dst, "Keep")
	require.NoError(t, (&DataImportCmd{File: path}).Run(dst))
	assert.Contains(t, out.String(), "Import cancelled.")
	habits := dst.Services.Habits.List(context.Background())
	require.Len(t, habits, 1)
	assert.Equal(t, "Keep", habits[0].Name)
}

func TestDataImportRejectsBadPayload(t *testing.T) {
	ctx, _ := setupContext(t, "")
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"habits": {"not": "an array"}}`), 0600))

	assert.Error(t, (&DataImportCmd{File: path, Yes: true}).Run(ctx))
}

func TestDataExportToStdout(t *testing.T) {
	ctx, out := setupContext(t, "")
	require.NoError(t, (&DataExportCmd{Format: "json"}).Run(ctx))
	assert.Contains(t, out.String(), `"version": "`+constants.ExportVersion+`"`)
}

func TestDataClear(t *testing.T) {
	ctx, out := setupContext(t, "no\n")
	seedHabit(t, ctx, "Read")

	require.NoError(t, (&DataClearCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Clear cancelled.")
	assert.Len(t, ctx.Services.Habits.List(context.Background()), 1)

	out.Reset()
	require.NoError(t, (&DataClearCmd{Yes: true}).Run(ctx))
	assert.Contains(t, out.String(), "Removed 1 keys")
	assert.Empty(t, ctx.Services.Habits.List(context.Background()))
}

func TestDataCleanup(t *testing.T) {
	ctx, out := setupContext(t, "")
	_, err := ctx.Services.Journal.Save(context.Background(), models.JournalEntry{
		Content: "long ago", Date: fixedNow.AddDate(0, 0, -10),
	})
	require.NoError(t, err)

	require.NoError(t, (&DataCleanupCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Removed 0 journal entries")

	out.Reset()
	days := 5
	require.NoError(t, (&DataCleanupCmd{Days: &days}).Run(ctx))
	assert.Contains(t, out.String(), "Removed 1 journal entries")
}

func TestDataSnapshotAndRestore(t *testing.T) {
	ctx, out := setupContext(t, "")
	seedHabit(t, ctx, "Read")

	require.NoError(t, (&DataSnapshotCmd{}).Run(ctx))
	snapshots, err := ctx.Backup.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	name := filepath.Base(snapshots[0].Path)
	assert.Contains(t, out.String(), name)

	out.Reset()
	require.NoError(t, (&DataSnapshotsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "1 total")

	seedHabit(t, ctx, "Run")
	require.Len(t, ctx.Services.Habits.List(context.Background()), 2)

	// a bare file name resolves inside the snapshot directory
	require.NoError(t, (&DataRestoreCmd{Snapshot: name, Yes: true}).Run(ctx))
	habits := ctx.Services.Habits.List(context.Background())
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name)

	assert.Error(t, (&DataRestoreCmd{Snapshot: "missing.json", Yes: true}).Run(ctx))
}

func TestDataSnapshotsEmpty(t *testing.T) {
	ctx, out := setupContext(t, "")
	require.NoError(t, (&DataSnapshotsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No snapshots found.")
}

func TestDataInfoAndMigrate(t *testing.T) {
	ctx, out := setupContext(t, "")
	seedHabit(t, ctx, "Read")

	require.NoError(t, (&DataInfoCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Store: memory")
	assert.Contains(t, out.String(), constants.KeyHabits)

	out.Reset()
	require.NoError(t, (&DataMigrateCmd{From: "0.9.0", To: constants.ExportVersion}).Run(ctx))
	assert.Contains(t, out.String(), "Migrated data from 0.9.0 to "+constants.ExportVersion)
}

func TestDataCopy(t *testing.T) {
	ctx, out := setupContext(t, "")
	seedHabit(t, ctx, "Read")

	path := filepath.Join(t.TempDir(), "copy.json")
	require.NoError(t, (&DataCopyCmd{ToStore: constants.StoreFile, ToPath: path}).Run(ctx))
	assert.Contains(t, out.String(), "to "+path)

	dst := storage.NewFileStore(path)
	require.NoError(t, dst.Open(context.Background()))
	raw, ok, err := dst.Get(context.Background(), constants.KeyHabits)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"Read"`)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
}
