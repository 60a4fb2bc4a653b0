package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/models"
)

const (
	snapshotLayout        = "20060102-1504"
	snapshotLayoutSeconds = "20060102-150405"
)

// SnapshotInfo describes one snapshot file on disk
type SnapshotInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// SnapshotDir returns where snapshot files are kept
func (m *Manager) SnapshotDir() string {
	return filepath.Join(m.dataDir, constants.BackupDirName)
}

func snapshotName(stamp string) string {
	return constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
}

// nextSnapshotPath picks a free file name: minute precision first, then seconds,
// then a numeric counter.
func (m *Manager) nextSnapshotPath(now time.Time) (string, error) {
	dir := m.SnapshotDir()
	path := filepath.Join(dir, snapshotName(now.Format(snapshotLayout)))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := now.Format(snapshotLayoutSeconds)
	path = filepath.Join(dir, snapshotName(stamp))
	for counter := 1; counter <= 100; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = filepath.Join(dir, snapshotName(fmt.Sprintf("%s-%d", stamp, counter)))
	}
	return "", fmt.Errorf("failed to generate unique snapshot filename")
}

// WriteSnapshot exports the store to a new snapshot file and rotates old ones.
func (m *Manager) WriteSnapshot(ctx context.Context) (string, error) {
	return m.writeSnapshot(ctx, true)
}

func (m *Manager) writeSnapshot(ctx context.Context, rotate bool) (string, error) {
	if err := os.MkdirAll(m.SnapshotDir(), 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	doc, err := m.ExportAll(ctx)
	if err != nil {
		return "", err
	}
	data, err := Encode(doc, FormatJSON)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path, err := m.nextSnapshotPath(m.Now())
	if err != nil {
		return "", err
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	logger.Info("Wrote snapshot", "path", path, "bytes", len(data))

	if rotate {
		if err := m.rotateSnapshots(); err != nil {
			logger.Warn("Failed to rotate old snapshots", "error", err)
		}
	}
	return path, nil
}

// parseSnapshotStamp reads the timestamp out of a snapshot file name, ignoring
// any trailing collision counter
func parseSnapshotStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{snapshotLayout, snapshotLayoutSeconds} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ListSnapshots returns snapshot files newest first.
func (m *Manager) ListSnapshots() ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.SnapshotDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snapshots := []SnapshotInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseSnapshotStamp(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, SnapshotInfo{
			Path:      filepath.Join(m.SnapshotDir(), entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
		}
		return snapshots[i].Path > snapshots[j].Path
	})
	return snapshots, nil
}

func (m *Manager) rotateSnapshots() error {
	snapshots, err := m.ListSnapshots()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
	}
	return nil
}

// RestoreSnapshot imports a snapshot file. The current state is first written to a
// fresh snapshot (outside rotation) so a restore can itself be undone.
func (m *Manager) RestoreSnapshot(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	payload, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return "", err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil || probe == nil {
		return "", fmt.Errorf("snapshot %s is not an export document", filepath.Base(path))
	}

	current, err := m.writeSnapshot(ctx, false)
	if err != nil {
		return "", fmt.Errorf("failed to back up current data before restore: %w", err)
	}
	if err := m.ImportAll(ctx, payload); err != nil {
		return current, err
	}
	return current, nil
}

func nextDue(last time.Time, f models.BackupFrequency) time.Time {
	switch f {
	case models.BackupDaily:
		return last.AddDate(0, 0, 1)
	case models.BackupMonthly:
		return last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, 7)
	}
}

// AutoSnapshot writes a snapshot when automatic backups are enabled and the newest
// one is older than the configured frequency. An empty path means nothing was due.
func (m *Manager) AutoSnapshot(ctx context.Context, prefs models.BackupPrefs) (string, error) {
	if !prefs.Auto {
		return "", nil
	}
	snapshots, err := m.ListSnapshots()
	if err != nil {
		return "", err
	}
	if len(snapshots) > 0 && m.Now().Before(nextDue(snapshots[0].Timestamp, prefs.Frequency)) {
		return "", nil
	}
	return m.WriteSnapshot(ctx)
}
