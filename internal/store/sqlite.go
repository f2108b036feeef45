package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists keys in a single-table SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get implements Store
func (s *SQLiteStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM kv WHERE key IN ("+placeholders+")", args...)
	if err != nil {
		return nil, &Error{Op: "get", Cause: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &Error{Op: "get", Cause: err}
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "get", Cause: err}
	}
	return result, nil
}

// Set implements Store
func (s *SQLiteStore) Set(ctx context.Context, values map[string]any) error {
	encoded, err := encodeValues(values)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Op: "set", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range encoded {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, string(value))
		if err != nil {
			return &Error{Op: "set", Key: key, Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &Error{Op: "set", Cause: err}
	}
	return nil
}

// Close implements Store
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
