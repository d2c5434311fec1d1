// Package sqlite provides a SQLite-backed storage driver. It is the default
// durable home for local-typed preferences on the client.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/papercomputeco/prefs/pkg/pref"
	"github.com/papercomputeco/prefs/pkg/storage"
)

// Driver implements storage.Driver using SQLite via database/sql.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a SQLite-backed driver. The dbPath can be a file path
// or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Driver{db: db}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

// migrate creates the preferences table if it doesn't exist.
func (d *Driver) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		identity TEXT NOT NULL,
		key TEXT NOT NULL,
		data_type TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (identity, key)
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Get retrieves the stored value for one key.
func (d *Driver) Get(ctx context.Context, identity, key string) (pref.TypedValue, error) {
	query := `SELECT data_type, value FROM preferences WHERE identity = ? AND key = ?`

	row := d.db.QueryRowContext(ctx, query, identity, key)

	var tv pref.TypedValue
	err := row.Scan(&tv.DataType, &tv.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return pref.TypedValue{}, storage.NotFoundError{Identity: identity, Key: key}
	}
	if err != nil {
		return pref.TypedValue{}, fmt.Errorf("failed to scan preference: %w", err)
	}

	return tv, nil
}

// Set stores or overwrites the value for one key.
func (d *Driver) Set(ctx context.Context, identity, key string, value pref.TypedValue) error {
	query := `INSERT INTO preferences (identity, key, data_type, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(identity, key) DO UPDATE SET
			data_type = excluded.data_type,
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`

	_, err := d.db.ExecContext(ctx, query, identity, key, value.DataType, value.Value)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}

// All returns every stored key/value pair for the identity.
func (d *Driver) All(ctx context.Context, identity string) (map[string]pref.TypedValue, error) {
	query := `SELECT key, data_type, value FROM preferences WHERE identity = ?`

	rows, err := d.db.QueryContext(ctx, query, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]pref.TypedValue)
	for rows.Next() {
		var key string
		var tv pref.TypedValue
		if err := rows.Scan(&key, &tv.DataType, &tv.Value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		out[key] = tv
	}

	return out, rows.Err()
}

// Delete removes one key. Absent keys are a no-op.
func (d *Driver) Delete(ctx context.Context, identity, key string) error {
	query := `DELETE FROM preferences WHERE identity = ? AND key = ?`

	_, err := d.db.ExecContext(ctx, query, identity, key)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}
