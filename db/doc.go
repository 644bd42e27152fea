// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Drivers

Two database types are supported:

  - sqlite: modernc.org/sqlite (pure Go, the default)
  - postgres: github.com/lib/pq

Open registers nothing itself; both drivers are imported here so that
sql.Open("sqlite", ...) and sql.Open("postgres", ...) resolve.

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Only the primary key column type differs between dialects.

# Tables

  - poll: one row per poll, client_id is unique
  - poll_option: options, unique per (poll_id, option_id)
  - vote: one row per selected option of a ballot
  - ballot_lock: duplicate-vote locks keyed by (client_id, fingerprint)

# Relationships

	poll 1──* poll_option   (by poll.id)
	poll 1──* vote          (by client_id)
	poll 1──* ballot_lock   (by client_id)

There are no foreign keys. Deleting a poll removes its options but leaves
its votes in place.

# Constraint Errors

IsUniqueViolation recognises unique violations from either driver:
SQLSTATE 23505 for postgres, SQLITE_CONSTRAINT for sqlite.
*/
package db
