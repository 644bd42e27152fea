// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"math"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/models"
)

// OptionTally is the number of vote rows recorded for one option id.
type OptionTally struct {
	OptionID string `db:"option_id"`
	Votes    int64  `db:"votes"`
}

// Results returns the tallies of a poll. It never fails: a missing poll
// yields no options and a query failure yields empty results.
func (s *VoteStore) Results(ctx context.Context, clientID string) models.Results {
	clientID = models.NormalizeClientID(clientID)
	results, err := cache.Remember(ctx, s.cache, "results_"+clientID, cache.GroupVote, s.voteTTL, func(ctx context.Context) (models.Results, error) {
		var options []models.Option
		poll, err := s.polls.Get(ctx, clientID)
		switch {
		case err == nil:
			options = poll.Options
		case !errors.Is(err, models.ErrNotFound):
			s.logger.Warn("results without options", "event", "results.options", "client_id", clientID, "error", err)
		}

		tallies, err := s.tallies(ctx, clientID)
		if err != nil {
			return models.Results{}, err
		}
		return AggregateResults(options, tallies), nil
	})
	if err != nil {
		s.logger.Error("results query failed", "event", "results.query", "client_id", clientID, "error", err)
		return AggregateResults(nil, nil)
	}
	return results
}

func (s *VoteStore) tallies(ctx context.Context, clientID string) ([]OptionTally, error) {
	var tallies []OptionTally
	err := s.db.From(voteTable).
		Select(goqu.C("option_id"), goqu.COUNT(goqu.Star()).As("votes")).
		Where(goqu.C("client_id").Eq(clientID)).
		GroupBy(goqu.C("option_id")).
		Prepared(true).
		ScanStructsContext(ctx, &tallies)
	return tallies, errors.Wrap(err, "tally votes")
}

// AggregateResults combines the authoritative option list with per-option
// tallies. Options without votes are reported with zero votes; tallies for
// ids not in options count towards the total only.
func AggregateResults(options []models.Option, tallies []OptionTally) models.Results {
	counts := make(map[string]int64, len(tallies))
	var total int64
	for _, t := range tallies {
		counts[t.OptionID] = t.Votes
		total += t.Votes
	}

	out := make([]models.OptionResult, 0, len(options))
	for _, o := range options {
		votes := counts[o.OptionID]
		out = append(out, models.OptionResult{
			ID:         o.ID,
			OptionID:   o.OptionID,
			Type:       o.Type,
			Option:     o.Option,
			Votes:      votes,
			Percentage: percentage(votes, total),
		})
	}

	return models.Results{
		TotalVotes:  total,
		VoterCounts: len(tallies),
		Options:     out,
	}
}

func percentage(votes, total int64) float64 {
	if votes <= 0 || total <= 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*100*100) / 100
}
