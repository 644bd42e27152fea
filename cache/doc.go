// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache provides the grouped key/value cache used by the repositories.

Keys live in one of two groups:

  - poll_cache: poll lookups and poll listings
  - vote_cache: results, vote listings, IP listings, locations

Writes flush whole groups instead of tracking individual keys:

	c.FlushGroup(ctx, cache.GroupPoll)

Remember is the usual entry point. It decodes a cached JSON value or runs
the loader and stores its result:

	poll, err := cache.Remember(ctx, c, "poll_"+id, cache.GroupPoll, 15*time.Minute, load)

Memory is backed by github.com/patrickmn/go-cache and is safe for
concurrent use.
*/
package cache
