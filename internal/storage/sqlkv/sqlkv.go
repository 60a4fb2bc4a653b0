// Package sqlkv implements the key-value document table shared by the SQL backends.
package sqlkv

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/migration"
)

// Table is the name of the document table created by the backend migrations
const Table = "kv"

// Store runs key-value statements against an already opened database.
type Store struct {
	db  *sqlx.DB
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

func New(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(migration.PlaceholderFor(db.DriverName())),
		now: time.Now,
	}
}

func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	query, args, err := s.sb.Select("value").From(Table).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, errors.IO("get", key, err)
	}

	var value string
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.IO("get", key, err)
	}
	return json.RawMessage(value), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return errors.IO("set", key, errors.New("value is not valid JSON"))
	}

	query, args, err := s.sb.Insert(Table).
		Columns("key", "value", "updated_at").
		Values(key, string(value), s.now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return errors.IO("set", key, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.IO("set", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	query, args, err := s.sb.Delete(Table).Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return errors.IO("remove", key, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.IO("remove", key, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	query, args, err := s.sb.Delete(Table).ToSql()
	if err != nil {
		return errors.IO("clear", "*", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.IO("clear", "*", err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.Select("key").From(Table).OrderBy("key").ToSql()
	if err != nil {
		return nil, errors.IO("keys", "*", err)
	}
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, errors.IO("keys", "*", err)
	}
	return keys, nil
}
