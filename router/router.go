// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/handlers"
	"github.com/danielhkuo/pollbooth/locale"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/store"
	"github.com/danielhkuo/pollbooth/voter"
	"github.com/danielhkuo/pollbooth/voting"
)

const cacheCleanupInterval = 5 * time.Minute

func NewRouter(db *sql.DB, cfg cliparse.Config) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	bundle, err := locale.NewBundle(cfg.LocalesDir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	// Shared services, built once
	c := cache.NewMemory(cacheCleanupInterval)
	st := store.New(db, c, store.Options{
		DatabaseType: cfg.DatabaseType,
		PollTTL:      cfg.PollCacheTTL,
		VoteTTL:      cfg.VoteCacheTTL,
	})
	svc := &voting.Service{
		Polls:           st.Polls,
		Votes:           st.Votes,
		Geo:             voter.NewGeoLocator(cfg.GeoURL, cfg.GeoTimeout, nil),
		Bundle:          bundle,
		FingerprintSalt: cfg.FingerprintSalt,
	}

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(st.Polls)
	votingHandler := handlers.NewVotingHandler(svc, bundle)
	resultsHandler := handlers.NewResultsHandler(st.Votes, c)

	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithAuth(cfg.JWTSecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return public(middleware.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management
	mux.HandleFunc("GET /polls", admin(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", admin(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{client_id}", public(pollHandler.GetPoll))
	mux.HandleFunc("PUT /polls/{client_id}", admin(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{client_id}", admin(pollHandler.DeletePoll))

	// Voting (public)
	mux.HandleFunc("POST /vote/{client_id}", public(votingHandler.Vote))

	// Results
	mux.HandleFunc("GET /polls/{client_id}/results", public(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{client_id}/votes", admin(resultsHandler.ListVotes))
	mux.HandleFunc("DELETE /polls/{client_id}/votes", admin(resultsHandler.ResetVotes))
	mux.HandleFunc("GET /polls/{client_id}/ips", admin(resultsHandler.ListIPs))
	mux.HandleFunc("GET /polls/{client_id}/locations", admin(resultsHandler.ListLocations))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollbooth API v1"))
	})

	return mux, nil
}
