// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/danielhkuo/pollbooth/locale"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/voter"
)

// PollReader loads a poll with its options.
type PollReader interface {
	Get(ctx context.Context, clientID string) (models.Poll, error)
}

// VoteRepository persists ballots and answers duplicate checks and tallies.
type VoteRepository interface {
	AlreadyVoted(ctx context.Context, clientID string, v models.Voter) (bool, error)
	Vote(ctx context.Context, req models.VoteRequest) (models.Ballot, error)
	Results(ctx context.Context, clientID string) models.Results
}

// Locator resolves an IP to a country code. It never fails; unknown is "".
type Locator interface {
	Country(ctx context.Context, ip string) string
}

// Service admits or rejects votes.
type Service struct {
	Polls           PollReader
	Votes           VoteRepository
	Geo             Locator
	Bundle          *locale.Bundle
	FingerprintSalt string
	Logger          *slog.Logger
	Now             func() time.Time
}

// Vote runs the admission checks in order and records the ballot:
// poll exists, options given, poll open, voter has not voted yet.
// Rejections return the matching models error; a closed poll returns
// *models.PollClosedError with the message to show.
func (s *Service) Vote(ctx context.Context, clientID string, optionIDs []string, v models.Voter, l *i18n.Localizer) (models.VoteReceipt, error) {
	logger := resolveLogger(s.Logger)

	poll, err := s.Polls.Get(ctx, clientID)
	if err != nil {
		logger.Warn("vote rejected",
			"event", "voting.poll_lookup_failed",
			"module", "voting",
			"client_id", clientID,
			"error", err,
		)
		return models.VoteReceipt{}, err
	}

	if len(optionIDs) == 0 {
		return models.VoteReceipt{}, models.ErrEmptyOptions
	}

	if poll.IsClosed(s.now()) {
		msg := poll.ClosedMessage(s.bundle().Localize(l, locale.PollClosed))
		logger.Info("vote rejected",
			"event", "voting.poll_closed",
			"module", "voting",
			"client_id", clientID,
			"status", poll.Status,
		)
		return models.VoteReceipt{}, &models.PollClosedError{Message: msg}
	}

	policy := poll.Settings.AllowedPerComputerResponse
	if policy {
		voted, err := s.Votes.AlreadyVoted(ctx, clientID, v)
		if err != nil {
			logger.Error("duplicate check failed",
				"event", "voting.duplicate_check_failed",
				"module", "voting",
				"client_id", clientID,
				"error", err,
			)
			return models.VoteReceipt{}, err
		}
		if voted {
			logger.Info("vote rejected",
				"event", "voting.already_voted",
				"module", "voting",
				"client_id", clientID,
				"user_id", v.UserID,
			)
			return models.VoteReceipt{}, models.ErrAlreadyVoted
		}
	}

	if s.Geo != nil {
		v.Country = s.Geo.Country(ctx, v.IP)
	}

	req := models.VoteRequest{
		ClientID:  clientID,
		OptionIDs: optionIDs,
		Voter:     v,
	}
	if policy {
		req.Fingerprints = voter.Fingerprints(v, s.FingerprintSalt)
	}

	ballot, err := s.Votes.Vote(ctx, req)
	if err != nil {
		logger.Warn("vote not recorded",
			"event", "voting.vote_failed",
			"module", "voting",
			"client_id", clientID,
			"error", err,
		)
		return models.VoteReceipt{}, err
	}

	logger.Info("vote recorded",
		"event", "voting.vote_recorded",
		"module", "voting",
		"client_id", clientID,
		"ballot_id", ballot.ID,
		"options", len(ballot.OptionIDs),
	)

	receipt := models.VoteReceipt{
		Success:  true,
		Data:     ballot.WithoutVoter(),
		Settings: poll.Settings,
	}
	if poll.Settings.ConfirmationMessageType == models.ConfirmViewResult {
		results := s.Votes.Results(ctx, clientID)
		receipt.Result = &results
		receipt.ResultText = RenderResults(s.bundle(), l, results)
	}
	return receipt, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) bundle() *locale.Bundle {
	if s.Bundle != nil {
		return s.Bundle
	}
	return defaultBundle
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
