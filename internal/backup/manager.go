// Package backup exports, imports and maintains the whole document store.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/collection"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/storage"
)

// Document is the export format. Collections are carried as raw JSON so an export
// followed by an import writes back the same bytes.
type Document struct {
	Habits      json.RawMessage `json:"habits"`
	Goals       json.RawMessage `json:"goals"`
	Tasks       json.RawMessage `json:"tasks"`
	Columns     json.RawMessage `json:"columns,omitempty"`
	Notes       json.RawMessage `json:"notes"`
	Journal     json.RawMessage `json:"journal"`
	Preferences json.RawMessage `json:"preferences"`
	ExportDate  time.Time       `json:"exportDate"`
	Version     string          `json:"version"`
}

// collectionKeys maps export document fields to storage keys, in export order
var collectionKeys = []struct {
	field string
	key   string
}{
	{"habits", constants.KeyHabits},
	{"goals", constants.KeyGoals},
	{"tasks", constants.KeyTasks},
	{"columns", constants.KeyColumns},
	{"notes", constants.KeyNotes},
	{"journal", constants.KeyJournal},
}

type Manager struct {
	store   storage.Provider
	dataDir string
	Now     func() time.Time
}

// NewManager creates a manager; snapshots are written under dataDir/backups.
func NewManager(store storage.Provider, dataDir string) *Manager {
	return &Manager{store: store, dataDir: dataDir, Now: time.Now}
}

// rawValue reads key, falling back to def when it is missing, unreadable or not
// the expected JSON kind
func (m *Manager) rawValue(ctx context.Context, key string, open byte, def string) json.RawMessage {
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read key for export", "key", key, "error", err)
		return json.RawMessage(def)
	}
	if !ok || !isKind(raw, open) {
		if ok {
			logger.Warn("Unexpected data at key, exporting default", "key", key)
		}
		return json.RawMessage(def)
	}
	return raw
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open && json.Valid(trimmed)
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// ExportAll snapshots every collection plus preferences. Missing collections export as [].
func (m *Manager) ExportAll(ctx context.Context) (*Document, error) {
	prefs, err := json.Marshal(models.DefaultPreferences())
	if err != nil {
		return nil, err
	}

	return &Document{
		Habits:      m.rawValue(ctx, constants.KeyHabits, '[', "[]"),
		Goals:       m.rawValue(ctx, constants.KeyGoals, '[', "[]"),
		Tasks:       m.rawValue(ctx, constants.KeyTasks, '[', "[]"),
		Columns:     m.rawValue(ctx, constants.KeyColumns, '[', "[]"),
		Notes:       m.rawValue(ctx, constants.KeyNotes, '[', "[]"),
		Journal:     m.rawValue(ctx, constants.KeyJournal, '[', "[]"),
		Preferences: m.rawValue(ctx, constants.KeyPreferences, '{', string(prefs)),
		ExportDate:  m.Now().UTC(),
		Version:     constants.ExportVersion,
	}, nil
}

// ImportAll replaces every collection present in payload. Keys the payload omits (or
// sets to null) are left alone. The payload is checked in full before anything is
// written, and the current state is saved under the pre-import key first.
func (m *Manager) ImportAll(ctx context.Context, payload json.RawMessage) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil || doc == nil {
		return fmt.Errorf("%w: expected a JSON object", errors.ErrInvalidImportPayload)
	}

	type write struct {
		key   string
		value []byte
	}
	var writes []write

	for _, c := range collectionKeys {
		raw, ok := doc[c.field]
		if !ok || isNull(raw) {
			continue
		}
		if !isKind(raw, '[') {
			return fmt.Errorf("%w: %q must be an array", errors.ErrInvalidImportPayload, c.field)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("%w: %q: %v", errors.ErrInvalidImportPayload, c.field, err)
		}
		writes = append(writes, write{c.key, buf.Bytes()})
	}

	if raw, ok := doc["preferences"]; ok && !isNull(raw) {
		if !isKind(raw, '{') {
			return fmt.Errorf("%w: %q must be an object", errors.ErrInvalidImportPayload, "preferences")
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("%w: %q: %v", errors.ErrInvalidImportPayload, "preferences", err)
		}
		writes = append(writes, write{constants.KeyPreferences, buf.Bytes()})
	}

	current, err := m.ExportAll(ctx)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(current)
	if err != nil {
		return errors.IO("encode", constants.KeyPreImport, err)
	}
	if err := m.store.Set(ctx, constants.KeyPreImport, snapshot); err != nil {
		return fmt.Errorf("failed to save pre-import backup: %w", err)
	}
	logger.Info("Saved pre-import backup", "key", constants.KeyPreImport, "bytes", len(snapshot))

	for _, w := range writes {
		if err := m.store.Set(ctx, w.key, w.value); err != nil {
			return err
		}
	}
	logger.Info("Import complete", "collections", len(writes))
	return nil
}

// CleanupResult counts what CleanupOlderThan removed
type CleanupResult struct {
	JournalRemoved     int `json:"journalRemoved"`
	CompletionsRemoved int `json:"completionsRemoved"`
}

// CleanupOlderThan drops journal entries dated on or before now-days and prunes
// the legacy habit completions list the same way. completedDates is not touched.
func (m *Manager) CleanupOlderThan(ctx context.Context, days int) (CleanupResult, error) {
	var result CleanupResult
	if days < 0 {
		return result, errors.Invalid("days must not be negative, got %d", days)
	}
	cutoff := m.Now().AddDate(0, 0, -days)

	journal := collection.New[models.JournalEntry](m.store, constants.KeyJournal, "journal entry")
	journal.Now = m.Now
	entries := journal.LoadAll(ctx)
	kept := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date.After(cutoff) {
			kept = append(kept, e)
		}
	}
	if result.JournalRemoved = len(entries) - len(kept); result.JournalRemoved > 0 {
		if err := journal.SaveAll(ctx, kept); err != nil {
			return result, err
		}
	}

	habits := collection.New[models.Habit](m.store, constants.KeyHabits, "habit")
	habits.Now = m.Now
	list := habits.LoadAll(ctx)
	for i := range list {
		var pruned []models.Completion
		for _, c := range list[i].Completions {
			if c.Date.After(cutoff) {
				pruned = append(pruned, c)
			}
		}
		result.CompletionsRemoved += len(list[i].Completions) - len(pruned)
		list[i].Completions = pruned
	}
	if result.CompletionsRemoved > 0 {
		if err := habits.SaveAll(ctx, list); err != nil {
			return result, err
		}
	}

	logger.Info("Cleaned up old data", "days", days, "journal", result.JournalRemoved, "completions", result.CompletionsRemoved)
	return result, nil
}

type KeyInfo struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
}

type StorageInfo struct {
	Location   string    `json:"location"`
	TotalKeys  int       `json:"totalKeys"`
	TotalBytes int       `json:"totalBytes"`
	Keys       []KeyInfo `json:"keys"`
}

// StorageInfo lists every application key with the byte length of its stored value.
func (m *Manager) StorageInfo(ctx context.Context) (StorageInfo, error) {
	info := StorageInfo{Location: m.store.Location(), Keys: []KeyInfo{}}
	keys, err := m.appKeys(ctx)
	if err != nil {
		return info, err
	}
	for _, key := range keys {
		raw, _, err := m.store.Get(ctx, key)
		if err != nil {
			return info, err
		}
		info.Keys = append(info.Keys, KeyInfo{Key: key, Bytes: len(raw)})
		info.TotalBytes += len(raw)
	}
	info.TotalKeys = len(info.Keys)
	return info, nil
}

func (m *Manager) appKeys(ctx context.Context) ([]string, error) {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, k := range keys {
		if strings.HasPrefix(k, constants.KeyPrefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Clear removes every application key and returns how many were removed.
func (m *Manager) Clear(ctx context.Context) (int, error) {
	keys, err := m.appKeys(ctx)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := m.store.Remove(ctx, key); err != nil {
			return i, err
		}
	}
	logger.Info("Cleared application data", "keys", len(keys))
	return len(keys), nil
}

// MigrationInfo is the record written by MigrateData
type MigrationInfo struct {
	FromVersion string    `json:"fromVersion"`
	ToVersion   string    `json:"toVersion"`
	Date        time.Time `json:"date"`
	Success     bool      `json:"success"`
}

// MigrateData records a data-format migration between export versions. No record
// transformation exists yet between known versions.
func (m *Manager) MigrateData(ctx context.Context, fromVersion, toVersion string) (MigrationInfo, error) {
	info := MigrationInfo{FromVersion: fromVersion, ToVersion: toVersion, Date: m.Now().UTC(), Success: true}
	data, err := json.Marshal(info)
	if err != nil {
		return info, errors.IO("encode", constants.KeyMigrationLog, err)
	}
	if err := m.store.Set(ctx, constants.KeyMigrationLog, data); err != nil {
		return info, err
	}
	logger.Info("Recorded data migration", "from", fromVersion, "to", toVersion)
	return info, nil
}

// CopyTo copies every application key, byte for byte, into dst.
func (m *Manager) CopyTo(ctx context.Context, dst storage.Provider) (int, error) {
	keys, err := m.appKeys(ctx)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil {
			return i, err
		}
		if !ok {
			continue
		}
		if err := dst.Set(ctx, key, raw); err != nil {
			return i, err
		}
	}
	logger.Info("Copied data between stores", "from", m.store.Location(), "to", dst.Location(), "keys", len(keys))
	return len(keys), nil
}
