package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all keys in a single JSON document on disk.
// The whole document is rewritten on every Set.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON file at path.
// The file is created on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, &Error{Op: "open", Cause: errors.New("store path is empty")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &Error{Op: "open", Cause: err}
	}
	return &FileStore{path: path}, nil
}

// Get implements Store
func (f *FileStore) Get(_ context.Context, keys ...string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := doc[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Set implements Store
func (f *FileStore) Set(_ context.Context, values map[string]any) error {
	encoded, err := encodeValues(values)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	for key, value := range encoded {
		doc[key] = value
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &Error{Op: "set", Cause: err}
	}

	// Replace atomically via rename
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &Error{Op: "set", Cause: err}
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return &Error{Op: "set", Cause: err}
	}
	return nil
}

// Close implements Store
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, &Error{Op: "get", Cause: err}
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Op: "get", Cause: err}
	}
	return doc, nil
}
