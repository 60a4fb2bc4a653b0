package sqlkv

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/metaflow/internal/errors"
)

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := New(sqlx.NewDb(db, "postgres"))
	store.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return store, mock
}

func TestGet(t *testing.T) {
	store, mock := setupMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1")).
		WithArgs("@metaflow_habits").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"h1"}]`))

	value, ok, err := store.Get(ctx, "@metaflow_habits")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"h1"}]`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingKey(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1")).
		WithArgs("@metaflow_goals").
		WillReturnError(sql.ErrNoRows)

	value, ok, err := store.Get(context.Background(), "@metaflow_goals")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestGetFailureIsIOError(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1")).
		WithArgs("@metaflow_notes").
		WillReturnError(assert.AnError)

	_, _, err := store.Get(context.Background(), "@metaflow_notes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIOFailure))
}

func TestSetUpserts(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO kv (key,value,updated_at) VALUES ($1,$2,$3) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
	)).
		WithArgs("@metaflow_theme", `"dark"`, "2024-03-01T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "@metaflow_theme", json.RawMessage(`"dark"`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	store, mock := setupMock(t)

	err := store.Set(context.Background(), "@metaflow_theme", json.RawMessage(`{nope`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIOFailure))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAndClear(t *testing.T) {
	store, mock := setupMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE key = $1")).
		WithArgs("@metaflow_tasks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv")).
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, store.Remove(ctx, "@metaflow_tasks"))
	require.NoError(t, store.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeys(t *testing.T) {
	store, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM kv ORDER BY key")).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("@metaflow_goals").AddRow("@metaflow_habits"))

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"@metaflow_goals", "@metaflow_habits"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
