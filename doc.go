// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollbooth API server.

pollbooth is a polling service: authors embed a poll, visitors vote
through a form, and admins review tallies, per-country and per-IP
breakdowns.

# Starting the Server

The server reads a .env file, the environment and CLI flags:

	JWT_SECRET=... FINGERPRINT_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HMAC secret for bearer tokens
  - FINGERPRINT_SALT (-fingerprint-salt): salt for duplicate-vote fingerprints

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): connection string, required for postgres
  - GEO_LOOKUP_URL, GEO_TIMEOUT: country lookup endpoint and timeout
  - POLL_CACHE_TTL, VOTE_CACHE_TTL: cache lifetimes
  - LOCALES_DIR (-locales): translation files

# Architecture

  - handlers: HTTP request handlers (polls, voting, results)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JWT auth, JSON helpers
  - voting: vote admission rules
  - voter: voter identity, IP validation, geolocation
  - store: poll and vote repositories (goqu over postgres or sqlite)
  - cache: grouped cache with whole-group invalidation
  - locale: translated voter-facing messages
  - models: domain types and errors
  - auth: JWT claims and IP hashing
  - db: connection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
