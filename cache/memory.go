// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Cache. Entries are stored under "group:key".
type Memory struct {
	items *gocache.Cache
}

func NewMemory(cleanupInterval time.Duration) *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *Memory) Get(_ context.Context, key, group string) ([]byte, bool) {
	v, ok := m.items.Get(groupKey(key, group))
	if !ok {
		return nil, false
	}
	raw, ok := v.([]byte)
	return raw, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte, group string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(groupKey(key, group), value, ttl)
}

func (m *Memory) FlushGroup(_ context.Context, group string) {
	prefix := group + ":"
	for k := range m.items.Items() {
		if strings.HasPrefix(k, prefix) {
			m.items.Delete(k)
		}
	}
}

func groupKey(key, group string) string {
	return group + ":" + key
}
