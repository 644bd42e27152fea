// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/testutil"
)

func TestVoteStoresOneRowPerOption(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	st := testutil.NewTestStore(t, conn)
	clientID := testutil.ClientID(1)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A", "B", "C")

	voter := models.Voter{UserID: 5, IP: "203.0.113.9", Agent: "curl/8", Country: "NL"}
	ballot, err := st.Votes.Vote(ctx, models.VoteRequest{
		ClientID:  clientID,
		OptionIDs: []string{"opt-1", "opt-3"},
		Voter:     voter,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ballot.ID)
	assert.Equal(t, []string{"opt-1", "opt-3"}, ballot.OptionIDs)
	require.NotNil(t, ballot.Voter)
	assert.Equal(t, voter, *ballot.Voter)

	rows, err := conn.Query("SELECT ballot_id, option_id, user_id, user_ip, user_location, user_agent FROM vote WHERE client_id = ? ORDER BY id", clientID)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var ballotID, optionID, ip, location, agent string
		var userID int64
		require.NoError(t, rows.Scan(&ballotID, &optionID, &userID, &ip, &location, &agent))
		assert.Equal(t, ballot.ID, ballotID)
		assert.Equal(t, int64(5), userID)
		assert.Equal(t, "203.0.113.9", ip)
		assert.Equal(t, "NL", location)
		assert.Equal(t, "curl/8", agent)
		got = append(got, optionID)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"opt-1", "opt-3"}, got)
}

func TestVoteRejections(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	st := testutil.NewTestStore(t, conn)
	clientID := testutil.ClientID(2)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A")

	tests := []struct {
		name string
		req  models.VoteRequest
		want error
	}{
		{"unknown option", models.VoteRequest{ClientID: clientID, OptionIDs: []string{"opt-1", "opt-7"}}, models.ErrInvalidPollOption},
		{"no options", models.VoteRequest{ClientID: clientID}, models.ErrEmptyOptions},
		{"unknown poll", models.VoteRequest{ClientID: testutil.ClientID(3), OptionIDs: []string{"opt-1"}}, models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.Votes.Vote(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&n))
	assert.Zero(t, n)
}

func TestVoteFingerprintLock(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	st := testutil.NewTestStore(t, conn)
	clientID := testutil.ClientID(4)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A", "B")

	req := models.VoteRequest{
		ClientID:     clientID,
		OptionIDs:    []string{"opt-1", "opt-2"},
		Voter:        models.Voter{IP: "198.51.100.4"},
		Fingerprints: []string{"ip:abc"},
	}
	_, err := st.Votes.Vote(ctx, req)
	require.NoError(t, err)

	_, err = st.Votes.Vote(ctx, req)
	assert.ErrorIs(t, err, models.ErrAlreadyVoted)

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&n))
	assert.Equal(t, 2, n, "rejected ballot must not leave rows behind")

	// same fingerprint on another poll is independent
	other := testutil.ClientID(5)
	testutil.CreateTestPoll(t, st, other, models.StatusPublish, models.Settings{}, "A")
	req.ClientID, req.OptionIDs = other, []string{"opt-1"}
	_, err = st.Votes.Vote(ctx, req)
	assert.NoError(t, err)
}

func TestAlreadyVoted(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t, testutil.SetupTestDB(t))
	clientID := testutil.ClientID(6)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A")
	_, err := st.Votes.Vote(ctx, models.VoteRequest{
		ClientID:  clientID,
		OptionIDs: []string{"opt-1"},
		Voter:     models.Voter{UserID: 12, IP: "192.0.2.10"},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		voter models.Voter
		want  bool
	}{
		{"same ip", models.Voter{IP: "192.0.2.10"}, true},
		{"same user other ip", models.Voter{UserID: 12, IP: "192.0.2.99"}, true},
		{"other user other ip", models.Voter{UserID: 13, IP: "192.0.2.99"}, false},
		{"anonymous unknown ip", models.Voter{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.Votes.AlreadyVoted(ctx, clientID, tt.voter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := st.Votes.AlreadyVoted(ctx, testutil.ClientID(7), models.Voter{IP: "192.0.2.10"})
	require.NoError(t, err)
	assert.False(t, got, "votes on other polls do not count")
}

func TestVotesListing(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t, testutil.SetupTestDB(t))
	a, b := testutil.ClientID(8), testutil.ClientID(9)

	// both polls use option id opt-1 with different text
	testutil.CreateTestPoll(t, st, a, models.StatusPublish, models.Settings{}, "Apples", "Pears")
	testutil.CreateTestPoll(t, st, b, models.StatusPublish, models.Settings{}, "Bananas")

	testutil.CastTestVote(t, st, a, "203.0.113.1", "opt-1")
	testutil.CastTestVote(t, st, a, "203.0.113.2", "opt-1", "opt-2")
	testutil.CastTestVote(t, st, b, "203.0.113.1", "opt-1")

	rows, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: a})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, a, r.ClientID)
		switch r.OptionID {
		case "opt-1":
			assert.Equal(t, "Apples", r.Option)
		case "opt-2":
			assert.Equal(t, "Pears", r.Option)
		}
		assert.Equal(t, models.OptionText, r.OptionType)
	}

	byIP, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: a, IP: "203.0.113.2"})
	require.NoError(t, err)
	assert.Len(t, byIP, 2)

	byOption, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: a, Option: "opt-2"})
	require.NoError(t, err)
	assert.Len(t, byOption, 1)

	search, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: a, Search: ".113.1"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	paged, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: a, PerPage: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	n, err := st.Votes.CountVotes(ctx, models.VoteFilter{ClientID: a})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	empty, err := st.Votes.Votes(ctx, models.VoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err = st.Votes.CountVotes(ctx, models.VoteFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIPVotes(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t, testutil.SetupTestDB(t))
	clientID := testutil.ClientID(10)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A", "B")
	testutil.CastTestVote(t, st, clientID, "203.0.113.1", "opt-1", "opt-2")
	testutil.CastTestVote(t, st, clientID, "203.0.113.1", "opt-1")
	testutil.CastTestVote(t, st, clientID, "198.51.100.7", "opt-2")

	rows, err := st.Votes.IPVotes(ctx, models.VoteFilter{ClientID: clientID, OrderBy: "votes", Order: "DESC"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.IPVotes{IP: "203.0.113.1", Location: "US", Votes: 3}, rows[0])
	assert.Equal(t, models.IPVotes{IP: "198.51.100.7", Location: "US", Votes: 1}, rows[1])

	filtered, err := st.Votes.IPVotes(ctx, models.VoteFilter{ClientID: clientID, IP: "198.51.100.7"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "198.51.100.7", filtered[0].IP)

	n, err := st.Votes.CountIPs(ctx, models.VoteFilter{ClientID: clientID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// default ordering is by latest vote
	latest, err := st.Votes.IPVotes(ctx, models.VoteFilter{ClientID: clientID})
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	none, err := st.Votes.IPVotes(ctx, models.VoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	searched, err := st.Votes.IPVotes(ctx, models.VoteFilter{ClientID: clientID, Search: "100.7"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "198.51.100.7", searched[0].IP)

	// "_" and "%" are not wildcards
	for _, search := range []string{"203_0", "%"} {
		n, err := st.Votes.CountIPs(ctx, models.VoteFilter{ClientID: clientID, Search: search})
		require.NoError(t, err)
		assert.Zero(t, n, search)
	}
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t, testutil.SetupTestDB(t))
	clientID := testutil.ClientID(11)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A")
	for _, country := range []string{"US", "DE", "US", ""} {
		_, err := st.Votes.Vote(ctx, models.VoteRequest{
			ClientID:  clientID,
			OptionIDs: []string{"opt-1"},
			Voter:     models.Voter{Country: country},
		})
		require.NoError(t, err)
	}

	locations, err := st.Votes.Locations(ctx, clientID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"", "DE", "US"}, locations)
}

func TestResetResults(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	st := testutil.NewTestStore(t, conn)
	clientID := testutil.ClientID(12)

	testutil.CreateTestPoll(t, st, clientID, models.StatusPublish, models.Settings{}, "A")
	_, err := st.Votes.Vote(ctx, models.VoteRequest{
		ClientID:     clientID,
		OptionIDs:    []string{"opt-1"},
		Voter:        models.Voter{IP: "203.0.113.5"},
		Fingerprints: []string{"ip:x"},
	})
	require.NoError(t, err)

	ok, err := st.Votes.ResetResults(ctx, clientID)
	require.NoError(t, err)
	assert.True(t, ok)

	var votes, locks int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&votes))
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM ballot_lock").Scan(&locks))
	assert.Zero(t, votes)
	assert.Zero(t, locks)

	// the lock is gone, so the same voter can vote again
	_, err = st.Votes.Vote(ctx, models.VoteRequest{
		ClientID:     clientID,
		OptionIDs:    []string{"opt-1"},
		Voter:        models.Voter{IP: "203.0.113.5"},
		Fingerprints: []string{"ip:x"},
	})
	assert.NoError(t, err)
}

func TestVoteClientIDIgnoresCase(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t, testutil.SetupTestDB(t))
	lower := testutil.ClientID(0xabc)
	upper := strings.ToUpper(lower)

	testutil.CreateTestPoll(t, st, lower, models.StatusPublish, models.Settings{}, "A", "B")
	ballot := testutil.CastTestVote(t, st, upper, "203.0.113.1", "opt-1")
	assert.Equal(t, lower, ballot.ClientID)

	voted, err := st.Votes.AlreadyVoted(ctx, upper, models.Voter{IP: "203.0.113.1"})
	require.NoError(t, err)
	assert.True(t, voted)

	rows, err := st.Votes.Votes(ctx, models.VoteFilter{ClientID: upper})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), st.Votes.Results(ctx, upper).TotalVotes)

	ok, err := st.Votes.ResetResults(ctx, upper)
	require.NoError(t, err)
	assert.True(t, ok)
	n, err := st.Votes.CountVotes(ctx, models.VoteFilter{ClientID: lower})
	require.NoError(t, err)
	assert.Zero(t, n)
}
