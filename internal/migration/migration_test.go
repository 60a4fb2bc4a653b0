package migration

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sqlx.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name))
	return count == 1
}

func TestCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{})

	version, err := runner.CurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, version)
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), fstest.MapFS{
		"003_another.sql": {Data: []byte("CREATE TABLE test2 (id INTEGER);")},
		"001_init.sql":    {Data: []byte("CREATE TABLE test1 (id INTEGER);")},
		"002_update.sql":  {Data: []byte("ALTER TABLE test1 ADD COLUMN name TEXT;")},
		"README.md":       {Data: []byte("ignored")},
	})

	migrations, err := runner.ReadMigrationFiles()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "update", migrations[1].Name)
	assert.Equal(t, 3, migrations[2].Version)
	assert.Equal(t, "another", migrations[2].Name)
}

func TestReadMigrationFilesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{"missing name", fstest.MapFS{"001.sql": {Data: []byte("SELECT 1;")}}},
		{"non numeric version", fstest.MapFS{"abc_init.sql": {Data: []byte("SELECT 1;")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("SELECT 1;")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 1;")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), tt.files).ReadMigrationFiles()
			assert.Error(t, err)
		})
	}
}

func TestApplyFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);")},
		"002_posts.sql": {Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);")},
	})
	ctx := context.Background()

	var logs []string
	count, err := runner.Apply(ctx, func(s string) { logs = append(logs, s) })
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NotEmpty(t, logs)

	version, err := runner.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.True(t, tableExists(t, db, "users"))
	assert.True(t, tableExists(t, db, "posts"))
}

func TestApplyIncremental(t *testing.T) {
	db := setupTestDB(t)
	files := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY);")},
	}
	ctx := context.Background()

	count, err := NewRunner(db, files).Apply(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	files["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	count, err = NewRunner(db, files).Apply(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-running is a no-op
	count, err = NewRunner(db, files).Apply(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestApplyFailedMigrationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE broken (;")},
	})
	ctx := context.Background()

	count, err := runner.Apply(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, 1, count)

	version, err := runner.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.False(t, tableExists(t, db, "broken"))
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	files := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_more.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}
	_, err := NewRunner(db, files).Apply(ctx, nil)
	require.NoError(t, err)

	older := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	})
	err = older.ValidateVersion(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")

	_, err = older.Apply(ctx, nil)
	assert.Error(t, err)
}

func TestPlaceholderFor(t *testing.T) {
	assert.Equal(t, squirrel.Dollar, PlaceholderFor("postgres"))
	assert.Equal(t, squirrel.Question, PlaceholderFor("sqlite"))
}
