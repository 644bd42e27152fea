// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/pkg/errors"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/db"
	"github.com/danielhkuo/pollbooth/models"
)

const defaultPollsPerPage = 10

// errPollExists marks an insert that lost a race with a concurrent insert.
var errPollExists = errors.New("poll already exists")

// PollStore persists polls and their options.
type PollStore struct {
	*base
}

type pollRow struct {
	ID          int64     `db:"id"`
	ClientID    string    `db:"client_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	Reference   string    `db:"reference"`
	Settings    string    `db:"settings"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Response    int64     `db:"response"`
}

func (r pollRow) toPoll() models.Poll {
	var settings models.Settings
	if r.Settings != "" {
		// settings are validated on write; a bad document degrades to defaults
		_ = json.Unmarshal([]byte(r.Settings), &settings)
	}
	return models.Poll{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Status:      r.Status,
		Reference:   r.Reference,
		Settings:    settings.WithDefaults(),
		Options:     []models.Option{},
		Response:    r.Response,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func pollColumns(prefix string) []interface{} {
	cols := []string{"id", "client_id", "title", "description", "type", "status", "reference", "settings", "created_at", "updated_at"}
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = goqu.I(prefix + c)
	}
	return out
}

// Get returns the poll with its options, served from the poll cache when possible.
func (s *PollStore) Get(ctx context.Context, clientID string) (models.Poll, error) {
	clientID = models.NormalizeClientID(clientID)
	return cache.Remember(ctx, s.cache, "poll_"+clientID, cache.GroupPoll, s.pollTTL, func(ctx context.Context) (models.Poll, error) {
		return s.load(ctx, s.db, clientID)
	})
}

// Exist reports whether a poll with the client id exists.
func (s *PollStore) Exist(ctx context.Context, clientID string) bool {
	_, err := s.Get(ctx, clientID)
	return err == nil
}

// IsValidPollOption reports whether every option id belongs to the poll.
func (s *PollStore) IsValidPollOption(ctx context.Context, clientID string, optionIDs []string) bool {
	poll, err := s.Get(ctx, clientID)
	if err != nil {
		return false
	}
	return poll.HasOptions(optionIDs)
}

func (s *PollStore) load(ctx context.Context, q queryer, clientID string) (models.Poll, error) {
	var row pollRow
	found, err := q.From(pollTable).
		Select(pollColumns("")...).
		Where(goqu.C("client_id").Eq(clientID)).
		Prepared(true).
		ScanStructContext(ctx, &row)
	if err != nil {
		return models.Poll{}, errors.Wrapf(err, "select poll %s", clientID)
	}
	if !found {
		return models.Poll{}, models.ErrNotFound
	}

	poll := row.toPoll()
	poll.Options, err = loadOptions(ctx, q, row.ID)
	if err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// All lists polls matching the filter, each with its response count.
func (s *PollStore) All(ctx context.Context, f models.PollFilter) ([]models.Poll, error) {
	f = normalizePollFilter(f)
	key := cache.Key("polls", f)

	return cache.Remember(ctx, s.cache, key, cache.GroupPoll, s.pollTTL, func(ctx context.Context) ([]models.Poll, error) {
		limit, offset := pageBounds(f.Page, f.PerPage, defaultPollsPerPage)

		cols := append(pollColumns("p."), goqu.COUNT(goqu.I("v.id")).As("response"))
		ds := s.db.From(pollTable.As("p")).
			LeftJoin(voteTable.As("v"), goqu.On(goqu.I("v.client_id").Eq(goqu.I("p.client_id")))).
			Select(cols...).
			Where(pollConditions(f)...).
			GroupBy(pollColumns("p.")...).
			Order(orderExpr(pollOrderColumns, f.OrderBy, f.Order, "id", "DESC")).
			Limit(limit).
			Offset(offset).
			Prepared(true)

		var rows []pollRow
		if err := ds.ScanStructsContext(ctx, &rows); err != nil {
			return nil, errors.Wrap(err, "list polls")
		}

		polls := make([]models.Poll, 0, len(rows))
		for _, r := range rows {
			polls = append(polls, r.toPoll())
		}
		return polls, nil
	})
}

// Count returns how many polls match the filter, ignoring pagination.
func (s *PollStore) Count(ctx context.Context, f models.PollFilter) (int64, error) {
	f = normalizePollFilter(f)
	f.Page, f.PerPage, f.OrderBy, f.Order = 0, 0, "", ""
	key := cache.Key("polls_count", f)

	return cache.Remember(ctx, s.cache, key, cache.GroupPoll, s.pollTTL, func(ctx context.Context) (int64, error) {
		n, err := s.db.From(pollTable.As("p")).
			Where(pollConditions(f)...).
			Prepared(true).
			CountContext(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "count polls")
		}
		return n, nil
	})
}

var pollOrderColumns = map[string]exp.Orderable{
	"id":         goqu.I("p.id"),
	"title":      goqu.I("p.title"),
	"type":       goqu.I("p.type"),
	"status":     goqu.I("p.status"),
	"created_at": goqu.I("p.created_at"),
	"updated_at": goqu.I("p.updated_at"),
	"response":   goqu.I("response"),
}

func normalizePollFilter(f models.PollFilter) models.PollFilter {
	if f.Status == "" {
		f.Status = models.StatusPublish
	}
	if f.Type == "" {
		f.Type = models.TypePoll
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = defaultPollsPerPage
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func pollConditions(f models.PollFilter) []exp.Expression {
	var where []exp.Expression
	if f.Status != models.FilterAll {
		where = append(where, goqu.I("p.status").Eq(f.Status))
	}
	if f.Type != models.FilterAll {
		where = append(where, goqu.I("p.type").Eq(f.Type))
	}
	if f.Search != "" {
		where = append(where, containsFold(goqu.I("p.title"), f.Search))
	}
	return where
}

// Save creates or updates the poll identified by in.ClientID and reconciles
// its options to exactly in.Options. It returns the stored poll.
func (s *PollStore) Save(ctx context.Context, in models.SavePollInput) (models.Poll, error) {
	in, err := normalizeSaveInput(in)
	if err != nil {
		return models.Poll{}, err
	}

	settings, err := json.Marshal(in.Settings)
	if err != nil {
		return models.Poll{}, errors.Wrap(err, "encode settings")
	}

	err = s.saveTx(ctx, in, string(settings))
	if errors.Is(err, errPollExists) {
		// another writer inserted the same client id; retry as an update
		err = s.saveTx(ctx, in, string(settings))
	}
	if err != nil {
		s.logger.Error("poll save failed", "event", "poll.save", "client_id", in.ClientID, "error", err)
		return models.Poll{}, err
	}

	s.cache.FlushGroup(ctx, cache.GroupPoll)
	s.logger.Info("poll saved", "event", "poll.save", "client_id", in.ClientID, "options", len(in.Options))

	return s.Get(ctx, in.ClientID)
}

func (s *PollStore) saveTx(ctx context.Context, in models.SavePollInput, settings string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}

	return tx.Wrap(func() error {
		now := s.now().UTC()

		var pollID int64
		found, err := tx.From(pollTable).
			Select("id").
			Where(goqu.C("client_id").Eq(in.ClientID)).
			Prepared(true).
			ScanValContext(ctx, &pollID)
		if err != nil {
			return errors.Wrap(err, "lookup poll")
		}

		record := goqu.Record{
			"title":       in.Title,
			"description": in.Description,
			"type":        in.Type,
			"status":      in.Status,
			"reference":   in.Reference,
			"settings":    settings,
			"updated_at":  now,
		}

		if found {
			res, err := tx.Update(pollTable).
				Set(record).
				Where(goqu.C("id").Eq(pollID)).
				Prepared(true).
				Executor().ExecContext(ctx)
			if err != nil {
				return models.NewStorageError(models.ErrUpdate, err)
			}
			if n, err := res.RowsAffected(); err != nil || n == 0 {
				return models.NewStorageError(models.ErrUpdate, err)
			}
		} else {
			record["client_id"] = in.ClientID
			record["created_at"] = now
			_, err := tx.Insert(pollTable).Rows(record).Prepared(true).Executor().ExecContext(ctx)
			if db.IsUniqueViolation(err) {
				return errPollExists
			}
			if err != nil {
				return models.NewStorageError(models.ErrInsert, err)
			}

			if _, err := tx.From(pollTable).
				Select("id").
				Where(goqu.C("client_id").Eq(in.ClientID)).
				Prepared(true).
				ScanValContext(ctx, &pollID); err != nil {
				return models.NewStorageError(models.ErrInsert, err)
			}
		}

		return reconcileOptions(ctx, tx, pollID, in.Options)
	})
}

// Delete removes the poll and its options. Votes are kept.
func (s *PollStore) Delete(ctx context.Context, clientID string) error {
	clientID = models.NormalizeClientID(clientID)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin delete")
	}

	err = tx.Wrap(func() error {
		var pollID int64
		found, err := tx.From(pollTable).
			Select("id").
			Where(goqu.C("client_id").Eq(clientID)).
			Prepared(true).
			ScanValContext(ctx, &pollID)
		if err != nil {
			return errors.Wrap(err, "lookup poll")
		}
		if !found {
			return models.ErrNotFound
		}

		if _, err := tx.Delete(optionTable).
			Where(goqu.C("poll_id").Eq(pollID)).
			Prepared(true).
			Executor().ExecContext(ctx); err != nil {
			return models.NewStorageError(models.ErrDeletion, err)
		}

		res, err := tx.Delete(pollTable).
			Where(goqu.C("id").Eq(pollID)).
			Prepared(true).
			Executor().ExecContext(ctx)
		if err != nil {
			return models.NewStorageError(models.ErrDeletion, err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return models.NewStorageError(models.ErrDeletion, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.FlushGroup(ctx, cache.GroupPoll)
	s.logger.Info("poll deleted", "event", "poll.delete", "client_id", clientID)
	return nil
}

// normalizeSaveInput applies defaults and validates the desired poll state.
func normalizeSaveInput(in models.SavePollInput) (models.SavePollInput, error) {
	in.ClientID = models.NormalizeClientID(in.ClientID)
	if in.Type == "" {
		in.Type = models.TypePoll
	}
	if in.Status == "" {
		in.Status = models.StatusPublish
	}

	if in.Type != models.TypePoll {
		return in, fmt.Errorf("%w: unsupported type %q", models.ErrValidation, in.Type)
	}
	if !models.ValidStatus(in.Status) {
		return in, fmt.Errorf("%w: unknown status %q", models.ErrValidation, in.Status)
	}

	options, err := normalizeOptions(in.Options)
	if err != nil {
		return in, err
	}
	in.Options = options

	if !models.ValidClientID(in.ClientID) {
		return in, fmt.Errorf("%w: %q", models.ErrInvalidID, in.ClientID)
	}

	if err := in.Settings.Validate(); err != nil {
		return in, err
	}
	in.Settings = in.Settings.WithDefaults()
	return in, nil
}
