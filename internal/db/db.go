// Package db provides the PostgreSQL-backed key-value store.
package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jonathan/job-tracker/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Ensure DB implements store.Store
var _ store.Store = (*DB)(nil)

// Connect establishes a connection pool to the database and applies migrations
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations
func (db *DB) Migrate(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Get implements store.Store
func (db *DB) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT key, value FROM kv_store WHERE key = ANY($1)`,
		keys,
	)
	if err != nil {
		return nil, &store.Error{Op: "get", Cause: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &store.Error{Op: "get", Cause: err}
		}
		result[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.Error{Op: "get", Cause: err}
	}
	return result, nil
}

// Set implements store.Store. All values are written in one transaction.
func (db *DB) Set(ctx context.Context, values map[string]any) error {
	batch := &pgx.Batch{}
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return &store.Error{Op: "set", Key: key, Cause: err}
		}
		batch.Queue(
			`INSERT INTO kv_store (key, value, updated_at)
			 VALUES ($1, $2, NOW())
			 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
			key, data,
		)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return &store.Error{Op: "set", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return &store.Error{Op: "set", Cause: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &store.Error{Op: "set", Cause: err}
	}
	return nil
}
