// Package store opens the SQLite database backing posts, users,
// roles, and open-day bookings, and applies the schema.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	id          TEXT PRIMARY KEY,
	slug        TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	excerpt     TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	author_id   TEXT NOT NULL DEFAULT '',
	author_name TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	status      TEXT NOT NULL DEFAULT 'draft',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_status_created ON posts(status, created_at);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_roles (
	user_id TEXT NOT NULL,
	role    TEXT NOT NULL,
	UNIQUE(user_id, role)
);

CREATE TABLE IF NOT EXISTS open_day_slots (
	id        TEXT PRIMARY KEY,
	label     TEXT NOT NULL,
	starts_at TEXT NOT NULL,
	capacity  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS open_day_bookings (
	id         TEXT PRIMARY KEY,
	slot_id    TEXT NOT NULL REFERENCES open_day_slots(id),
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(slot_id, email)
);
`

// DB wraps the shared sql.DB handle.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Conn exposes the underlying connection for repository queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint
// violation. The constraint is the authoritative conflict signal; callers
// translate it into the matching domain error.
func IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrConstraint &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
