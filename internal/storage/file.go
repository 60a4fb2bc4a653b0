package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/metaflow/internal/errors"
)

// FileStore keeps all keys in a single JSON object on disk: {"<key>": <document>, ...}.
// The file is re-read on every call; writes go through a temp file and an atomic rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Open(ctx context.Context) error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.write(map[string]json.RawMessage{})
	}
	return nil
}

func (s *FileStore) Close() error     { return nil }
func (s *FileStore) Location() string { return s.path }

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, false, errors.IO("get", key, err)
	}
	v, ok := doc[key]
	return v, ok, nil
}

// mutate runs a read-modify-write cycle over the whole file
func (s *FileStore) mutate(op, key string, fn func(doc map[string]json.RawMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return errors.IO(op, key, err)
	}
	fn(doc)
	if err := s.write(doc); err != nil {
		return errors.IO(op, key, err)
	}
	return nil
}

func (s *FileStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return errors.IO("set", key, fmt.Errorf("value is not valid JSON"))
	}
	return s.mutate("set", key, func(doc map[string]json.RawMessage) {
		doc[key] = value
	})
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	return s.mutate("remove", key, func(doc map[string]json.RawMessage) {
		delete(doc, key)
	})
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(map[string]json.RawMessage{}); err != nil {
		return errors.IO("clear", "*", err)
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, errors.IO("keys", "*", err)
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
