package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/metaflow/internal/backup"
	"github.com/julianstephens/metaflow/internal/config"
	"github.com/julianstephens/metaflow/internal/constants"
)

type DataCmd struct {
	Export    DataExportCmd    `cmd:"" help:"Export everything as one JSON or YAML document."`
	Import    DataImportCmd    `cmd:"" help:"Import an export document, replacing the collections it contains."`
	Cleanup   DataCleanupCmd   `cmd:"" help:"Delete journal entries and legacy completions older than N days."`
	Info      DataInfoCmd      `cmd:"" help:"Show stored keys and their sizes."`
	Clear     DataClearCmd     `cmd:"" help:"Delete all metaflow data from the store."`
	Snapshot  DataSnapshotCmd  `cmd:"" help:"Write a snapshot to the backups directory."`
	Snapshots DataSnapshotsCmd `cmd:"" help:"List snapshots, newest first."`
	Restore   DataRestoreCmd   `cmd:"" help:"Restore a snapshot."`
	Migrate   DataMigrateCmd   `cmd:"" help:"Record a data format migration."`
	Copy      DataCopyCmd      `cmd:"" help:"Copy all data into another store."`
}

type DataExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Format string `help:"json or yaml (default: from the output extension)." enum:",json,yaml" default:""`
}

func (c *DataExportCmd) Run(ctx *Context) error {
	format := c.Format
	if format == "" {
		format = backup.FormatFromPath(c.Output)
	}
	doc, err := ctx.Backup.ExportAll(ctx.ctx())
	if err != nil {
		return err
	}
	data, err := backup.Encode(doc, format)
	if err != nil {
		return err
	}
	if c.Output == "" {
		ctx.printf("%s\n", data)
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("Exported to %s\n", c.Output)
	return nil
}

type DataImportCmd struct {
	File   string `arg:"" help:"Export document to import." type:"existingfile"`
	Format string `help:"json or yaml (default: from the file extension)." enum:",json,yaml" default:""`
	Yes    bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *DataImportCmd) Run(ctx *Context) error {
	format := c.Format
	if format == "" {
		format = backup.FormatFromPath(c.File)
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	payload, err := backup.Decode(data, format)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.println("Collections present in the file will replace the current ones.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	if err := ctx.Backup.ImportAll(ctx.ctx(), payload); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.printf("Imported %s (previous data saved under %s)\n", c.File, constants.KeyPreImport)
	return nil
}

type DataCleanupCmd struct {
	Days *int `help:"Keep this many days (default: cleanup_days from config)."`
}

func (c *DataCleanupCmd) Run(ctx *Context) error {
	days := ctx.Config.CleanupDays
	if c.Days != nil {
		days = *c.Days
	}
	result, err := ctx.Backup.CleanupOlderThan(ctx.ctx(), days)
	if err != nil {
		return err
	}
	ctx.printf("Removed %d journal entries and %d legacy completions older than %d days\n",
		result.JournalRemoved, result.CompletionsRemoved, days)
	return nil
}

type DataInfoCmd struct{}

func (c *DataInfoCmd) Run(ctx *Context) error {
	info, err := ctx.Backup.StorageInfo(ctx.ctx())
	if err != nil {
		return err
	}
	ctx.printf("Store: %s\n", info.Location)
	for _, k := range info.Keys {
		ctx.printf("  %-34s %8s\n", k.Key, formatBytes(k.Bytes))
	}
	ctx.printf("%d keys, %s total\n", info.TotalKeys, formatBytes(info.TotalBytes))
	return nil
}

func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024.0)
}

type DataClearCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *DataClearCmd) Run(ctx *Context) error {
	if !c.Yes {
		ctx.println("WARNING: This deletes every habit, goal, task, note and journal entry.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Clear cancelled.")
			return nil
		}
	}
	n, err := ctx.Backup.Clear(ctx.ctx())
	if err != nil {
		return err
	}
	ctx.printf("Removed %d keys\n", n)
	return nil
}

type DataSnapshotCmd struct{}

func (c *DataSnapshotCmd) Run(ctx *Context) error {
	path, err := ctx.Backup.WriteSnapshot(ctx.ctx())
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	ctx.printf("Snapshot written: %s\n", filepath.Base(path))
	return nil
}

type DataSnapshotsCmd struct{}

func (c *DataSnapshotsCmd) Run(ctx *Context) error {
	snapshots, err := ctx.Backup.ListSnapshots()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		ctx.println("No snapshots found.")
		ctx.printf("Snapshots are stored in: %s\n", ctx.Backup.SnapshotDir())
		return nil
	}

	ctx.printf("Available snapshots (%d total, keeping most recent %d):\n\n", len(snapshots), constants.MaxBackups)
	for _, s := range snapshots {
		ctx.printf("  %s  %s  (%.1f KB)\n", s.Timestamp.Format("2006-01-02 15:04"), filepath.Base(s.Path), float64(s.Size)/1024.0)
	}
	ctx.printf("\nSnapshot directory: %s\n", ctx.Backup.SnapshotDir())
	return nil
}

type DataRestoreCmd struct {
	Snapshot string `arg:"" help:"Path or filename of the snapshot to restore."`
	Yes      bool   `help:"Do not ask for confirmation." short:"y"`
}

// resolveSnapshot accepts a path, or a bare filename inside the snapshot directory
func resolveSnapshot(dir, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	if !filepath.IsAbs(name) {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("snapshot not found: tried %s and %s", name, dir)
}

func (c *DataRestoreCmd) Run(ctx *Context) error {
	path, err := resolveSnapshot(ctx.Backup.SnapshotDir(), c.Snapshot)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.println("WARNING: This replaces your current data with the snapshot.")
		ctx.println("A snapshot of your current data will be written first.")
		ctx.printf("\nRestore from: %s\n", path)
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	current, err := ctx.Backup.RestoreSnapshot(ctx.ctx(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.println("Restored successfully.")
	ctx.printf("Previous data saved to %s\n", filepath.Base(current))
	return nil
}

type DataMigrateCmd struct {
	From string `help:"Version the data was written with." required:""`
	To   string `help:"Version to migrate to." default:"${export_version}"`
}

func (c *DataMigrateCmd) Run(ctx *Context) error {
	info, err := ctx.Backup.MigrateData(ctx.ctx(), c.From, c.To)
	if err != nil {
		return err
	}
	ctx.printf("Migrated data from %s to %s\n", info.FromVersion, info.ToVersion)
	return nil
}

type DataCopyCmd struct {
	ToStore string `help:"Destination backend." required:"" enum:"file,sqlite,postgres"`
	ToPath  string `help:"Destination file, or connection string for postgres."`
}

func (c *DataCopyCmd) Run(ctx *Context) error {
	dstCfg := *ctx.Config
	if err := dstCfg.Apply(config.Overrides{Store: c.ToStore, Path: c.ToPath}); err != nil {
		return err
	}
	if c.ToPath == "" {
		dstCfg.Path = ""
	}
	dst, err := OpenStore(ctx.ctx(), &dstCfg)
	if err != nil {
		return err
	}
	defer dst.Close()

	if dst.Location() == ctx.Store.Location() {
		return fmt.Errorf("source and destination are the same store (%s)", dst.Location())
	}
	n, err := ctx.Backup.CopyTo(ctx.ctx(), dst)
	if err != nil {
		return fmt.Errorf("copy failed after %d keys: %w", n, err)
	}
	ctx.printf("Copied %d keys to %s\n", n, dst.Location())
	return nil
}
