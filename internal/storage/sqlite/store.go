package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/migration"
	"github.com/julianstephens/metaflow/internal/storage/sqlkv"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store is the embedded, single-file SQL backend.
type Store struct {
	path string
	*sqlkv.Store
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Open(ctx context.Context) error {
	if s.Store != nil {
		return nil
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.Store = sqlkv.New(db)
	return nil
}

func (s *Store) Close() error {
	if s.Store == nil {
		return nil
	}
	err := s.DB().Close()
	s.Store = nil
	return err
}

func (s *Store) Location() string { return s.path }

func runMigrations(ctx context.Context, db *sqlx.DB) error {
	subFS, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	_, err = migration.NewRunner(db, subFS).Apply(ctx, func(msg string) {
		logger.Debug(msg)
	})
	return err
}
