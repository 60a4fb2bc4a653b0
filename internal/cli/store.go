package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/metaflow/internal/config"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/keyring"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/storage"
	"github.com/julianstephens/metaflow/internal/storage/postgres"
	"github.com/julianstephens/metaflow/internal/storage/sqlite"
)

// postgresConnString picks the connection string: config path first, then
// METAFLOW_DB_CONNECTION, then the OS keyring.
func postgresConnString(cfg *config.Config) (string, error) {
	if cfg.Path != "" {
		if _, err := postgres.ValidateConnString(cfg.Path); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("%w; store the connection string with 'metaflow keyring set' or %s instead", err, constants.EnvDBConnection)
			}
			return "", err
		}
		return cfg.Path, nil
	}

	connStr, source, err := keyring.ResolveConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection string: pass --path, set %s or run 'metaflow keyring set'", constants.EnvDBConnection)
		}
		return "", err
	}
	logger.Debug("Using PostgreSQL connection string", "source", source)
	return connStr, nil
}

// OpenStore builds and opens the backend the config selects.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Provider, error) {
	var store storage.Provider
	switch cfg.Store {
	case constants.StoreMemory:
		store = storage.NewMemoryStore()
	case constants.StoreFile, constants.StoreSQLite:
		path, err := cfg.StorePath()
		if err != nil {
			return nil, err
		}
		if cfg.Store == constants.StoreFile {
			store = storage.NewFileStore(path)
		} else {
			store = sqlite.NewStore(path)
		}
	case constants.StorePostgres:
		connStr, err := postgresConnString(cfg)
		if err != nil {
			return nil, err
		}
		store = postgres.New(connStr)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if err := store.Open(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Opened store", "backend", cfg.Store, "location", store.Location())
	return store, nil
}
