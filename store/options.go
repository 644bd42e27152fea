// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/danielhkuo/pollbooth/models"
)

func loadOptions(ctx context.Context, q queryer, pollID int64) ([]models.Option, error) {
	options := []models.Option{}
	err := q.From(optionTable).
		Select("id", "poll_id", "option_id", "type", "option").
		Where(goqu.C("poll_id").Eq(pollID)).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ScanStructsContext(ctx, &options)
	if err != nil {
		return nil, errors.Wrapf(err, "select options of poll %d", pollID)
	}
	return options, nil
}

// normalizeOptions drops options without a value, then checks option shape,
// assigns missing option ids, and rejects duplicate ids.
func normalizeOptions(in []models.Option) ([]models.Option, error) {
	out := make([]models.Option, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, o := range in {
		o.Option = strings.TrimSpace(o.Option)
		if o.Option == "" {
			continue
		}

		switch o.Type {
		case models.OptionText, models.OptionImage:
		case "":
			return nil, fmt.Errorf("%w: option type is required", models.ErrFormat)
		default:
			return nil, fmt.Errorf("%w: unknown option type %q", models.ErrFormat, o.Type)
		}

		o.OptionID = strings.TrimSpace(o.OptionID)
		if o.OptionID == "" {
			o.OptionID = uuid.NewString()
		}
		if _, dup := seen[o.OptionID]; dup {
			return nil, fmt.Errorf("%w: duplicate option_id %q", models.ErrValidation, o.OptionID)
		}
		seen[o.OptionID] = struct{}{}

		out = append(out, o)
	}
	return out, nil
}

// reconcileOptions makes the stored options of pollID equal desired:
// missing ones are deleted, new ones inserted, changed ones updated in place.
func reconcileOptions(ctx context.Context, q queryer, pollID int64, desired []models.Option) error {
	current, err := loadOptions(ctx, q, pollID)
	if err != nil {
		return err
	}

	existing := make(map[string]models.Option, len(current))
	for _, o := range current {
		existing[o.OptionID] = o
	}
	wanted := make(map[string]struct{}, len(desired))
	for _, o := range desired {
		wanted[o.OptionID] = struct{}{}
	}

	var stale []string
	for _, o := range current {
		if _, ok := wanted[o.OptionID]; !ok {
			stale = append(stale, o.OptionID)
		}
	}
	if len(stale) > 0 {
		if _, err := q.Delete(optionTable).
			Where(goqu.C("poll_id").Eq(pollID), goqu.C("option_id").In(stale)).
			Prepared(true).
			Executor().ExecContext(ctx); err != nil {
			return models.NewStorageError(models.ErrDeletion, err)
		}
	}

	for _, o := range desired {
		prev, ok := existing[o.OptionID]
		if !ok {
			if _, err := q.Insert(optionTable).Rows(goqu.Record{
				"poll_id":   pollID,
				"option_id": o.OptionID,
				"type":      o.Type,
				"option":    o.Option,
			}).Prepared(true).Executor().ExecContext(ctx); err != nil {
				return models.NewStorageError(models.ErrInsert, err)
			}
			continue
		}
		if prev.Type == o.Type && prev.Option == o.Option {
			continue
		}
		if _, err := q.Update(optionTable).
			Set(goqu.Record{"type": o.Type, "option": o.Option}).
			Where(goqu.C("id").Eq(prev.ID)).
			Prepared(true).
			Executor().ExecContext(ctx); err != nil {
			return models.NewStorageError(models.ErrUpdate, err)
		}
	}
	return nil
}
