// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the poll and vote repositories.

All SQL is built with goqu so the same code runs against postgres and
sqlite; the dialect follows Options.DatabaseType.

	st := store.New(conn, cache.NewMemory(time.Minute), store.Options{DatabaseType: cfg.DatabaseType})
	poll, err := st.Polls.Get(ctx, clientID)

# Polls

PollStore.Save is an upsert keyed by client id. Inside one transaction it
writes the poll row and reconciles options by diff: options missing from
the input are deleted, new ones inserted, changed ones updated in place.
Options with an empty value are dropped and options without an option_id
get a generated one. Save flushes the poll cache group and returns a fresh
Get.

PollStore.Delete removes the poll and its options but not its votes.

# Votes

VoteStore.Vote writes one vote row per selected option, all sharing a
ballot id, inside one transaction. Fingerprints on the request are first
inserted into ballot_lock; a primary key conflict there means the voter
already voted and nothing is written.

# Results

VoteStore.Results never fails. Tallies come from a single GROUP BY over
vote rows and are merged into the poll's option list by AggregateResults:

	percentage = round(votes / total * 100, 2)

VoterCounts is the number of distinct options that received votes.

# Caching

Reads go through cache.Remember with these keys:

	poll_<client_id>                poll_cache  poll TTL
	polls_<md5>, polls_count_<md5>  poll_cache  poll TTL
	results_<client_id>             vote_cache  vote TTL
	votes_<md5>, ip_votes_<md5>     vote_cache  vote TTL
	votes_count_<md5>               vote_cache  poll TTL
	ip_votes_count_<md5>            vote_cache  vote TTL
	votes_location_<client_id>      vote_cache  poll TTL

AlreadyVoted is never cached.
*/
package store
