package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLDriver keeps every collection as one row of a collections table. It works on
// SQLite and PostgreSQL alike; placeholders are rebound per dialect.
type SQLDriver struct {
	db   *sqlx.DB
	name string
}

const createCollectionsTable = `CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

// NewSQLDriver prepares the collections table on the given connection.
func NewSQLDriver(ctx context.Context, db *sqlx.DB) (*SQLDriver, error) {
	if _, err := db.ExecContext(ctx, createCollectionsTable); err != nil {
		return nil, fmt.Errorf("create collections table: %w", err)
	}
	return &SQLDriver{db: db, name: db.DriverName()}, nil
}

// Name implements Driver.
func (d *SQLDriver) Name() string { return d.name }

// Read implements Driver.
func (d *SQLDriver) Read(ctx context.Context, collection string) ([]byte, error) {
	var payload string
	query := d.db.Rebind(`SELECT payload FROM collections WHERE name = ?`)
	if err := d.db.GetContext(ctx, &payload, query, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(payload), nil
}

// Write implements Driver.
func (d *SQLDriver) Write(ctx context.Context, collection string, payload []byte) error {
	query := d.db.Rebind(`INSERT INTO collections (name, payload) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET payload = excluded.payload`)
	_, err := d.db.ExecContext(ctx, query, collection, string(payload))
	return err
}

// Close implements Driver.
func (d *SQLDriver) Close() error {
	return d.db.Close()
}
