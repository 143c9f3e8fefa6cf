// Package sqlite provides SQLite-based storage implementations for zalert
// services: the listings ledger and the processed-alert log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds on lock contention before failing.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode for faster writes on file-based databases. Not supported
	// for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			zpid TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			price INTEGER NOT NULL DEFAULT 0,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms REAL NOT NULL DEFAULT 0,
			square_feet INTEGER NOT NULL DEFAULT 0,
			lot_acres REAL NOT NULL DEFAULT 0,
			year_built INTEGER NOT NULL DEFAULT 0,
			hoa_monthly INTEGER NOT NULL DEFAULT 0,
			property_type TEXT NOT NULL DEFAULT '',
			county TEXT NOT NULL DEFAULT '',
			has_garage INTEGER,
			has_basement INTEGER,
			has_fireplace INTEGER,
			has_pool INTEGER NOT NULL DEFAULT 0,
			has_cooling INTEGER NOT NULL DEFAULT 0,
			has_heating INTEGER NOT NULL DEFAULT 0,
			garage_spaces INTEGER NOT NULL DEFAULT 0,
			floor_count INTEGER NOT NULL DEFAULT 0,
			room_count INTEGER NOT NULL DEFAULT 0,
			foundation_type TEXT NOT NULL DEFAULT '',
			exterior_type TEXT NOT NULL DEFAULT '',
			roof_type TEXT NOT NULL DEFAULT '',
			last_sale_price INTEGER NOT NULL DEFAULT 0,
			last_sale_date TEXT NOT NULL DEFAULT '',
			property_tax INTEGER NOT NULL DEFAULT 0,
			tax_assessment INTEGER NOT NULL DEFAULT 0,
			latitude REAL NOT NULL DEFAULT 0,
			longitude REAL NOT NULL DEFAULT 0,
			commutes TEXT NOT NULL DEFAULT '',
			added_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_added_at ON listings(added_at);

		CREATE TABLE IF NOT EXISTS alerts (
			body_hash TEXT PRIMARY KEY,
			subject TEXT NOT NULL DEFAULT '',
			listings INTEGER NOT NULL DEFAULT 0,
			processed_at TEXT NOT NULL
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
