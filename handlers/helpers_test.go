// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/db"
	"github.com/danielhkuo/pollbooth/locale"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/store"
	"github.com/danielhkuo/pollbooth/testutil"
	"github.com/danielhkuo/pollbooth/voting"
)

// testEnv wires the handlers over an in-memory database
type testEnv struct {
	cfg     cliparse.Config
	cache   *cache.Memory
	store   *store.Store
	polls   *PollHandler
	voting  *VotingHandler
	results *ResultsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mem := cache.NewMemory(time.Minute)
	st := store.New(conn, mem, store.Options{DatabaseType: db.SQLite})

	bundle, err := locale.NewBundle("../locales", nil)
	if err != nil {
		t.Fatalf("Failed to load locales: %v", err)
	}

	svc := &voting.Service{
		Polls:           st.Polls,
		Votes:           st.Votes,
		Bundle:          bundle,
		FingerprintSalt: cfg.FingerprintSalt,
	}

	return &testEnv{
		cfg:     cfg,
		cache:   mem,
		store:   st,
		polls:   NewPollHandler(st.Polls),
		voting:  NewVotingHandler(svc, bundle),
		results: NewResultsHandler(st.Votes, mem),
	}
}

// castVote posts a ballot from ip through the voting handler
func (e *testEnv) castVote(clientID, ip string, optionIDs ...string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/vote/"+clientID, map[string][]string{"options": optionIDs}, nil)
	req.SetPathValue("client_id", clientID)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	e.voting.Vote(w, req)
	return w
}

// serve calls h with the client_id path value set
func serve(h http.HandlerFunc, req *http.Request, clientID string) *httptest.ResponseRecorder {
	if clientID != "" {
		req.SetPathValue("client_id", clientID)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func withAuthForTest(e *testEnv, h http.HandlerFunc) http.HandlerFunc {
	return middleware.WithAuth(e.cfg.JWTSecret, h)
}
