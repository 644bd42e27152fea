// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/db"
	"github.com/danielhkuo/pollbooth/models"
)

const defaultVotesPerPage = 15

// VoteStore persists ballots and answers vote listings and tallies.
type VoteStore struct {
	*base
	polls *PollStore
}

// Vote stores one row per selected option inside a single transaction.
// When req.Fingerprints is set, a lock row is taken per fingerprint first;
// an existing lock means the voter already voted.
func (s *VoteStore) Vote(ctx context.Context, req models.VoteRequest) (models.Ballot, error) {
	req.ClientID = models.NormalizeClientID(req.ClientID)
	optionIDs := uniqueStrings(req.OptionIDs)
	if len(optionIDs) == 0 {
		return models.Ballot{}, models.ErrEmptyOptions
	}

	poll, err := s.polls.Get(ctx, req.ClientID)
	if err != nil {
		return models.Ballot{}, err
	}
	if !poll.HasOptions(optionIDs) {
		return models.Ballot{}, models.ErrInvalidPollOption
	}

	ballot := models.Ballot{
		ID:        uuid.NewString(),
		ClientID:  req.ClientID,
		OptionIDs: optionIDs,
		Voter:     &req.Voter,
		CreatedAt: s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ballot{}, errors.Wrap(err, "begin vote")
	}

	err = tx.Wrap(func() error {
		for _, fp := range req.Fingerprints {
			_, err := tx.Insert(lockTable).Rows(goqu.Record{
				"client_id":   req.ClientID,
				"fingerprint": fp,
				"created_at":  ballot.CreatedAt,
			}).Prepared(true).Executor().ExecContext(ctx)
			if db.IsUniqueViolation(err) {
				return models.ErrAlreadyVoted
			}
			if err != nil {
				return models.NewStorageError(models.ErrInsert, err)
			}
		}

		for _, optionID := range optionIDs {
			_, err := tx.Insert(voteTable).Rows(goqu.Record{
				"ballot_id":     ballot.ID,
				"client_id":     req.ClientID,
				"option_id":     optionID,
				"user_id":       req.Voter.UserID,
				"user_ip":       req.Voter.IP,
				"user_location": req.Voter.Country,
				"user_agent":    req.Voter.Agent,
				"created_at":    ballot.CreatedAt,
			}).Prepared(true).Executor().ExecContext(ctx)
			if err != nil {
				return models.NewStorageError(models.ErrInsert, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Ballot{}, err
	}

	s.cache.FlushGroup(ctx, cache.GroupPoll)
	s.cache.FlushGroup(ctx, cache.GroupVote)
	s.logger.Info("vote stored", "event", "vote.insert", "client_id", req.ClientID, "ballot_id", ballot.ID, "options", len(optionIDs))

	return ballot, nil
}

// AlreadyVoted reports whether the voter has a vote on the poll, matched by
// user id for signed-in voters and by IP address. Never cached.
func (s *VoteStore) AlreadyVoted(ctx context.Context, clientID string, v models.Voter) (bool, error) {
	clientID = models.NormalizeClientID(clientID)
	if v.UserID > 0 {
		n, err := s.db.From(voteTable).
			Where(goqu.C("client_id").Eq(clientID), goqu.C("user_id").Eq(v.UserID)).
			Prepared(true).
			CountContext(ctx)
		if err != nil {
			return false, errors.Wrap(err, "count votes by user")
		}
		if n > 0 {
			return true, nil
		}
	}

	if v.IP == "" {
		return false, nil
	}
	n, err := s.db.From(voteTable).
		Where(goqu.C("client_id").Eq(clientID), goqu.C("user_ip").Eq(v.IP)).
		Prepared(true).
		CountContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "count votes by ip")
	}
	return n > 0, nil
}

var voteOrderColumns = map[string]exp.Orderable{
	"id":            goqu.I("v.id"),
	"created_at":    goqu.I("v.created_at"),
	"user_ip":       goqu.I("v.user_ip"),
	"user_location": goqu.I("v.user_location"),
	"option_id":     goqu.I("v.option_id"),
}

func voteConditions(f models.VoteFilter) []exp.Expression {
	where := []exp.Expression{goqu.I("v.client_id").Eq(f.ClientID)}
	if f.UserID > 0 {
		where = append(where, goqu.I("v.user_id").Eq(f.UserID))
	}
	if f.Location != "" {
		where = append(where, goqu.I("v.user_location").Eq(f.Location))
	}
	if f.IP != "" {
		where = append(where, goqu.I("v.user_ip").Eq(f.IP))
	}
	if f.Option != "" {
		where = append(where, goqu.I("v.option_id").Eq(f.Option))
	}
	if f.Search != "" {
		where = append(where, containsFold(goqu.I("v.user_ip"), f.Search))
	}
	return where
}

func normalizeVoteFilter(f models.VoteFilter) models.VoteFilter {
	f.ClientID = models.NormalizeClientID(f.ClientID)
	f.Search = strings.TrimSpace(f.Search)
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = defaultVotesPerPage
	}
	return f
}

// Votes lists individual vote rows of one poll with the text of the
// selected option. An empty client id yields no rows.
func (s *VoteStore) Votes(ctx context.Context, f models.VoteFilter) ([]models.VoteRow, error) {
	f = normalizeVoteFilter(f)
	if f.ClientID == "" {
		return []models.VoteRow{}, nil
	}

	return cache.Remember(ctx, s.cache, cache.Key("votes", f), cache.GroupVote, s.voteTTL, func(ctx context.Context) ([]models.VoteRow, error) {
		limit, offset := pageBounds(f.Page, f.PerPage, defaultVotesPerPage)

		rows := []models.VoteRow{}
		err := s.db.From(voteTable.As("v")).
			LeftJoin(pollTable.As("p"), goqu.On(goqu.I("p.client_id").Eq(goqu.I("v.client_id")))).
			LeftJoin(optionTable.As("o"), goqu.On(
				goqu.I("o.poll_id").Eq(goqu.I("p.id")),
				goqu.I("o.option_id").Eq(goqu.I("v.option_id")),
			)).
			Select(
				goqu.I("v.id"),
				goqu.I("v.ballot_id"),
				goqu.I("v.client_id"),
				goqu.I("v.option_id"),
				goqu.I("v.user_id"),
				goqu.I("v.user_ip"),
				goqu.I("v.user_location"),
				goqu.I("v.user_agent"),
				goqu.I("v.created_at"),
				goqu.COALESCE(goqu.I("o.option"), "").As("option"),
				goqu.COALESCE(goqu.I("o.type"), "").As("option_type"),
			).
			Where(voteConditions(f)...).
			Order(orderExpr(voteOrderColumns, f.OrderBy, f.Order, "created_at", "DESC"), goqu.I("v.id").Desc()).
			Limit(limit).
			Offset(offset).
			Prepared(true).
			ScanStructsContext(ctx, &rows)
		if err != nil {
			return nil, errors.Wrap(err, "list votes")
		}
		return rows, nil
	})
}

// CountVotes counts vote rows matching the filter, ignoring pagination.
func (s *VoteStore) CountVotes(ctx context.Context, f models.VoteFilter) (int64, error) {
	f = normalizeVoteFilter(f)
	if f.ClientID == "" {
		return 0, nil
	}
	f.Page, f.PerPage, f.OrderBy, f.Order = 0, 0, "", ""

	return cache.Remember(ctx, s.cache, cache.Key("votes_count", f), cache.GroupVote, s.pollTTL, func(ctx context.Context) (int64, error) {
		n, err := s.db.From(voteTable.As("v")).
			Where(voteConditions(f)...).
			Prepared(true).
			CountContext(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "count votes")
		}
		return n, nil
	})
}

var ipOrderColumns = map[string]exp.Orderable{
	"ip":         goqu.I("v.user_ip"),
	"location":   goqu.MAX(goqu.I("v.user_location")),
	"votes":      goqu.COUNT(goqu.Star()),
	"created_at": goqu.MAX(goqu.I("v.created_at")),
}

func ipConditions(f models.VoteFilter) []exp.Expression {
	where := []exp.Expression{goqu.I("v.client_id").Eq(f.ClientID)}
	if f.Location != "" {
		where = append(where, goqu.I("v.user_location").Eq(f.Location))
	}
	if f.IP != "" {
		where = append(where, goqu.I("v.user_ip").Eq(f.IP))
	}
	if f.Search != "" {
		where = append(where, containsFold(goqu.I("v.user_ip"), f.Search))
	}
	return where
}

// IPVotes lists vote counts grouped by IP address, most recent first by default.
func (s *VoteStore) IPVotes(ctx context.Context, f models.VoteFilter) ([]models.IPVotes, error) {
	f = normalizeVoteFilter(f)
	if f.ClientID == "" {
		return []models.IPVotes{}, nil
	}

	return cache.Remember(ctx, s.cache, cache.Key("ip_votes", f), cache.GroupVote, s.voteTTL, func(ctx context.Context) ([]models.IPVotes, error) {
		limit, offset := pageBounds(f.Page, f.PerPage, defaultVotesPerPage)

		rows := []models.IPVotes{}
		err := s.db.From(voteTable.As("v")).
			Select(
				goqu.I("v.user_ip").As("ip"),
				goqu.MAX(goqu.I("v.user_location")).As("location"),
				goqu.COUNT(goqu.Star()).As("votes"),
			).
			Where(ipConditions(f)...).
			GroupBy(goqu.I("v.user_ip")).
			Order(orderExpr(ipOrderColumns, f.OrderBy, f.Order, "created_at", "DESC"), goqu.I("v.user_ip").Asc()).
			Limit(limit).
			Offset(offset).
			Prepared(true).
			ScanStructsContext(ctx, &rows)
		if err != nil {
			return nil, errors.Wrap(err, "list ip votes")
		}
		return rows, nil
	})
}

// CountIPs counts distinct IP addresses that voted on the poll.
func (s *VoteStore) CountIPs(ctx context.Context, f models.VoteFilter) (int64, error) {
	f = normalizeVoteFilter(f)
	if f.ClientID == "" {
		return 0, nil
	}
	f.Page, f.PerPage, f.OrderBy, f.Order = 0, 0, "", ""

	return cache.Remember(ctx, s.cache, cache.Key("ip_votes_count", f), cache.GroupVote, s.voteTTL, func(ctx context.Context) (int64, error) {
		var n int64
		_, err := s.db.From(voteTable.As("v")).
			Select(goqu.COUNT(goqu.DISTINCT(goqu.I("v.user_ip")))).
			Where(ipConditions(f)...).
			Prepared(true).
			ScanValContext(ctx, &n)
		if err != nil {
			return 0, errors.Wrap(err, "count ip votes")
		}
		return n, nil
	})
}

// Locations returns the distinct voter countries recorded for the poll.
func (s *VoteStore) Locations(ctx context.Context, clientID string) ([]string, error) {
	clientID = models.NormalizeClientID(clientID)
	return cache.Remember(ctx, s.cache, "votes_location_"+clientID, cache.GroupVote, s.pollTTL, func(ctx context.Context) ([]string, error) {
		locations := []string{}
		err := s.db.From(voteTable).
			SelectDistinct("user_location").
			Where(goqu.C("client_id").Eq(clientID)).
			Order(goqu.C("user_location").Asc()).
			Prepared(true).
			ScanValsContext(ctx, &locations)
		if err != nil {
			return nil, errors.Wrap(err, "list vote locations")
		}
		return locations, nil
	})
}

// ResetResults deletes every vote and duplicate-vote lock of the poll.
// Callers flush the cache groups afterwards.
func (s *VoteStore) ResetResults(ctx context.Context, clientID string) (bool, error) {
	clientID = models.NormalizeClientID(clientID)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "begin reset")
	}

	err = tx.Wrap(func() error {
		for _, table := range []exp.IdentifierExpression{voteTable, lockTable} {
			if _, err := tx.Delete(table).
				Where(goqu.C("client_id").Eq(clientID)).
				Prepared(true).
				Executor().ExecContext(ctx); err != nil {
				return models.NewStorageError(models.ErrDeletion, fmt.Errorf("%s: %w", table.GetTable(), err))
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("reset results failed", "event", "vote.reset", "client_id", clientID, "error", err)
		return false, err
	}

	s.logger.Info("results reset", "event", "vote.reset", "client_id", clientID)
	return true, nil
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
