// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"
)

// Cache groups
const (
	GroupPoll = "poll_cache"
	GroupVote = "vote_cache"
)

// Cache is a key/value store with TTLs where keys belong to a named group
// that can be flushed as a whole.
type Cache interface {
	Get(ctx context.Context, key, group string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, group string, ttl time.Duration)
	FlushGroup(ctx context.Context, group string)
}

// Remember returns the cached value for key, or calls load and caches its
// result. Load errors are returned and nothing is cached.
func Remember[T any](ctx context.Context, c Cache, key, group string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw, ok := c.Get(ctx, key, group); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key, "group", group)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}
	c.Set(ctx, key, raw, group, ttl)
	return v, nil
}

// Key builds a cache key from a prefix and an arbitrary argument set.
func Key(prefix string, args any) string {
	raw, err := json.Marshal(args)
	if err != nil {
		raw = []byte(prefix)
	}
	sum := md5.Sum(raw)
	return prefix + "_" + hex.EncodeToString(sum[:])
}
