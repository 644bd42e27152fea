// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database types, as given by DATABASE_TYPE.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to the database of the given type and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	// sqlite allows a single writer
	if dbType == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	ddl, err := schemaFor(dbType)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func schemaFor(dbType string) (string, error) {
	switch dbType {
	case Postgres:
		return strings.ReplaceAll(schema, "{{serial}}", "BIGSERIAL PRIMARY KEY"), nil
	case SQLite:
		return strings.ReplaceAll(schema, "{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT"), nil
	}
	return "", fmt.Errorf("unsupported database type %q", dbType)
}

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return false
	}
	return false
}

// Integrity between tables is kept by the application: options are
// deleted with their poll, votes outlive it.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id {{serial}},
    client_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT 'poll',
    status TEXT NOT NULL DEFAULT 'publish' CHECK (status IN ('publish', 'draft', 'schedule', 'trash')),
    reference TEXT NOT NULL DEFAULT '',
    settings TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_status ON poll(status);

-- Options
CREATE TABLE IF NOT EXISTS poll_option (
    id {{serial}},
    poll_id BIGINT NOT NULL,
    option_id TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'text',
    "option" TEXT NOT NULL DEFAULT '',
    UNIQUE (poll_id, option_id)
);

-- Votes, one row per selected option
CREATE TABLE IF NOT EXISTS vote (
    id {{serial}},
    ballot_id TEXT NOT NULL,
    client_id TEXT NOT NULL,
    option_id TEXT NOT NULL,
    user_id BIGINT NOT NULL DEFAULT 0,
    user_ip TEXT NOT NULL DEFAULT '',
    user_location TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_client_option ON vote(client_id, option_id);
CREATE INDEX IF NOT EXISTS idx_vote_client_ip ON vote(client_id, user_ip);
CREATE INDEX IF NOT EXISTS idx_vote_client_user ON vote(client_id, user_id);

-- Duplicate-vote locks for polls limited to one response per computer
CREATE TABLE IF NOT EXISTS ballot_lock (
    client_id TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (client_id, fingerprint)
);
`
