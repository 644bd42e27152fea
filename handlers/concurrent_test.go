// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/testutil"
)

// TestConcurrentVotes verifies that simultaneous ballots from different
// voters are all counted
func TestConcurrentVotes(t *testing.T) {
	env := newTestEnv(t)
	clientID := testutil.ClientID(1)
	testutil.CreateTestPoll(t, env.store, clientID, models.StatusPublish,
		models.Settings{AllowedPerComputerResponse: true}, "A", "B", "C")

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()
			ip := fmt.Sprintf("198.51.100.%d", voterIdx+1)
			option := fmt.Sprintf("opt-%d", voterIdx%3+1)
			if w := env.castVote(clientID, ip, option); w.Code == http.StatusOK {
				successCount.Add(1)
			} else {
				t.Errorf("Voter %d failed: %d - %s", voterIdx, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	results := env.store.Votes.Results(t.Context(), clientID)
	if results.TotalVotes != int64(numVoters) {
		t.Errorf("Expected %d votes, got %d", numVoters, results.TotalVotes)
	}
}

// TestConcurrentDuplicateVotes fires many ballots from one address at once.
// Exactly one may win; the lock rows reject the rest
func TestConcurrentDuplicateVotes(t *testing.T) {
	env := newTestEnv(t)
	clientID := testutil.ClientID(1)
	testutil.CreateTestPoll(t, env.store, clientID, models.StatusPublish,
		models.Settings{AllowedPerComputerResponse: true}, "A", "B")

	attempts := 8
	var successCount, rejectedCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := env.castVote(clientID, "198.51.100.50", "opt-1")
			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusBadRequest:
				rejectedCount.Add(1)
			default:
				t.Errorf("Unexpected status %d - %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}
	if int(rejectedCount.Load()) != attempts-1 {
		t.Errorf("Expected %d rejections, got %d", attempts-1, rejectedCount.Load())
	}

	results := env.store.Votes.Results(t.Context(), clientID)
	if results.TotalVotes != 1 {
		t.Errorf("Expected 1 stored vote, got %d", results.TotalVotes)
	}
}

// TestParallelPolls votes on independent polls at once
func TestParallelPolls(t *testing.T) {
	env := newTestEnv(t)

	numPolls := 4
	for p := 1; p <= numPolls; p++ {
		testutil.CreateTestPoll(t, env.store, testutil.ClientID(p), models.StatusPublish, models.Settings{}, "A", "B")
	}

	var wg sync.WaitGroup
	for p := 1; p <= numPolls; p++ {
		for v := 0; v < p; v++ {
			wg.Add(1)
			go func(clientID string, v int) {
				defer wg.Done()
				w := env.castVote(clientID, fmt.Sprintf("198.51.100.%d", v+1), "opt-2")
				if w.Code != http.StatusOK {
					t.Errorf("Vote on %s failed: %d - %s", clientID, w.Code, w.Body.String())
				}
			}(testutil.ClientID(p), v)
		}
	}
	wg.Wait()

	for p := 1; p <= numPolls; p++ {
		results := env.store.Votes.Results(t.Context(), testutil.ClientID(p))
		if results.TotalVotes != int64(p) {
			t.Errorf("Poll %d: expected %d votes, got %d", p, p, results.TotalVotes)
		}
	}
}
