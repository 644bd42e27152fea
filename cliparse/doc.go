// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file (default ./.env, see -env-file) is loaded with godotenv before
the environment is read. Variables already set in the process environment
are not overwritten, and a missing file is not an error.

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type (sqlite or postgres)
	-env-file          Path to .env file
	-jwt-secret        JWT signing secret
	-fingerprint-salt  Salt for duplicate-vote fingerprints
	-geo-url           Geolocation endpoint
	-geo-timeout       Geolocation timeout
	-poll-cache-ttl    TTL for poll lookups and listings
	-vote-cache-ttl    TTL for results and vote listings
	-locales           Translation file directory

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p                (default 3318)
	DATABASE_URL     → -d                (default pollbooth.db for sqlite)
	DATABASE_TYPE    → -t                (default sqlite)
	JWT_SECRET       → -jwt-secret
	FINGERPRINT_SALT → -fingerprint-salt
	GEO_LOOKUP_URL   → -geo-url          (default geoplugin.net)
	GEO_TIMEOUT      → -geo-timeout      (default 3s)
	POLL_CACHE_TTL   → -poll-cache-ttl   (default 15m)
	VOTE_CACHE_TTL   → -vote-cache-ttl   (default 30m)
	LOCALES_DIR      → -locales

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - JWT_SECRET or FINGERPRINT_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_URL is missing for postgres
  - PORT or a duration is malformed
*/
package cliparse
