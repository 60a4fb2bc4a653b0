// Package config loads metaflow settings from <dir>/config.json, the environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
)

const (
	KeyStore          = "store"
	KeyPath           = "path"
	KeyDebug          = "debug"
	KeyBackupSchedule = "backup_schedule"
	KeyCleanupDays    = "cleanup_days"
)

type Config struct {
	// Dir holds config.json, the log directory and snapshots
	Dir            string `json:"-"`
	Store          string `json:"store"`
	Path           string `json:"path"`
	Debug          bool   `json:"debug"`
	BackupSchedule string `json:"backup_schedule"`
	CleanupDays    int    `json:"cleanup_days"`
}

// Overrides come from command-line flags; empty values leave the loaded config alone.
type Overrides struct {
	Store string
	Path  string
	Debug bool
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStore, constants.DefaultStore)
	v.SetDefault(KeyPath, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyBackupSchedule, constants.DefaultSchedule)
	v.SetDefault(KeyCleanupDays, constants.DefaultKeepDays)
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(constants.ConfigFileName)
	v.SetConfigType(constants.ConfigFileType)
	v.AddConfigPath(dir)
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.json from dir, creating it with defaults on first run.
func Load(dir string) (*Config, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := writeDefaults(dir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Dir:            dir,
		Store:          strings.ToLower(v.GetString(KeyStore)),
		Path:           v.GetString(KeyPath),
		Debug:          v.GetBool(KeyDebug),
		BackupSchedule: v.GetString(KeyBackupSchedule),
		CleanupDays:    v.GetInt(KeyCleanupDays),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeDefaults uses a separate instance so environment overrides are not persisted
func writeDefaults(dir string) error {
	v := viper.New()
	setDefaults(v)
	path := filepath.Join(dir, constants.ConfigFileName+"."+constants.ConfigFileType)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}
	return nil
}

// Apply folds flag overrides into the config and re-validates it.
func (c *Config) Apply(o Overrides) error {
	if o.Store != "" {
		c.Store = strings.ToLower(o.Store)
	}
	if o.Path != "" {
		c.Path = o.Path
	}
	if o.Debug {
		c.Debug = true
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch c.Store {
	case constants.StoreMemory, constants.StoreFile, constants.StoreSQLite, constants.StorePostgres:
	default:
		return errors.Invalid("unknown store %q (want memory, file, sqlite or postgres)", c.Store)
	}
	if c.CleanupDays < 0 {
		return errors.Invalid("cleanup_days must not be negative, got %d", c.CleanupDays)
	}
	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			return errors.Invalid("invalid backup_schedule %q: %v", c.BackupSchedule, err)
		}
	}
	return nil
}

// StorePath returns the file used by the file and sqlite stores. For postgres it
// returns Path verbatim, which may be empty.
func (c *Config) StorePath() (string, error) {
	if c.Path != "" {
		if c.Store == constants.StorePostgres {
			return c.Path, nil
		}
		return ExpandHome(c.Path)
	}
	switch c.Store {
	case constants.StoreSQLite:
		return filepath.Join(c.Dir, constants.DefaultDBName), nil
	case constants.StoreFile:
		return filepath.Join(c.Dir, constants.DefaultFileName), nil
	}
	return "", nil
}
