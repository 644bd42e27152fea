// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/db"
)

const (
	DefaultPollTTL = 15 * time.Minute
	DefaultVoteTTL = 30 * time.Minute
)

var (
	pollTable   = goqu.T("poll")
	optionTable = goqu.T("poll_option")
	voteTable   = goqu.T("vote")
	lockTable   = goqu.T("ballot_lock")
)

// Options configures a Store. Zero values get defaults.
type Options struct {
	DatabaseType string
	PollTTL      time.Duration
	VoteTTL      time.Duration
	Logger       *slog.Logger
	Now          func() time.Time
}

// Store bundles the poll and vote repositories over one connection and cache.
type Store struct {
	Polls *PollStore
	Votes *VoteStore
}

func New(conn *sql.DB, c cache.Cache, opts Options) *Store {
	b := newBase(conn, c, opts)
	polls := &PollStore{base: b}
	return &Store{
		Polls: polls,
		Votes: &VoteStore{base: b, polls: polls},
	}
}

type base struct {
	db      *goqu.Database
	cache   cache.Cache
	pollTTL time.Duration
	voteTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func newBase(conn *sql.DB, c cache.Cache, opts Options) *base {
	dialect := "sqlite3"
	if opts.DatabaseType == db.Postgres {
		dialect = "postgres"
	}
	if opts.PollTTL <= 0 {
		opts.PollTTL = DefaultPollTTL
	}
	if opts.VoteTTL <= 0 {
		opts.VoteTTL = DefaultVoteTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &base{
		db:      goqu.New(dialect, conn),
		cache:   c,
		pollTTL: opts.PollTTL,
		voteTTL: opts.VoteTTL,
		logger:  resolveLogger(opts.Logger),
		now:     opts.Now,
	}
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("module", "store")
}

// queryer is satisfied by both *goqu.Database and *goqu.TxDatabase.
type queryer interface {
	From(from ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

func pageBounds(page, perPage, defaultPerPage int) (limit, offset uint) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	return uint(perPage), uint((page - 1) * perPage)
}

// orderExpr resolves a sort column against an allowlist. Unknown columns or
// directions fall back to the given defaults.
func orderExpr(allowed map[string]exp.Orderable, orderBy, order, fallbackBy, fallbackOrder string) exp.OrderedExpression {
	col, ok := allowed[orderBy]
	if !ok {
		col, order = allowed[fallbackBy], fallbackOrder
	}
	switch strings.ToUpper(order) {
	case "ASC":
		return col.Asc()
	case "DESC":
		return col.Desc()
	}
	if fallbackOrder == "ASC" {
		return col.Asc()
	}
	return col.Desc()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold matches rows whose col contains s, ignoring case. Wildcards
// in s match literally.
func containsFold(col exp.IdentifierExpression, s string) exp.Expression {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
	return goqu.L(`LOWER(?) LIKE ? ESCAPE '\'`, col, pattern)
}
