// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok := m.Get(ctx, "k", GroupPoll)
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), GroupPoll, time.Minute)
	raw, ok := m.Get(ctx, "k", GroupPoll)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), raw)

	// same key, other group
	_, ok = m.Get(ctx, "k", GroupVote)
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	m.Set(ctx, "short", []byte("v"), GroupVote, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(ctx, "short", GroupVote)
	assert.False(t, ok)
}

func TestMemoryFlushGroup(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	m.Set(ctx, "a", []byte("1"), GroupPoll, time.Minute)
	m.Set(ctx, "b", []byte("2"), GroupPoll, time.Minute)
	m.Set(ctx, "a", []byte("3"), GroupVote, time.Minute)

	m.FlushGroup(ctx, GroupPoll)

	_, ok := m.Get(ctx, "a", GroupPoll)
	assert.False(t, ok)
	_, ok = m.Get(ctx, "b", GroupPoll)
	assert.False(t, ok)

	raw, ok := m.Get(ctx, "a", GroupVote)
	require.True(t, ok)
	assert.Equal(t, []byte("3"), raw)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	type payload struct {
		N int `json:"n"`
	}

	calls := 0
	load := func(context.Context) (payload, error) {
		calls++
		return payload{N: calls}, nil
	}

	first, err := Remember(ctx, m, "p", GroupPoll, time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, m, "p", GroupPoll, time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	m.FlushGroup(ctx, GroupPoll)
	third, err := Remember(ctx, m, "p", GroupPoll, time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, third.N)
}

func TestRemember_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	boom := errors.New("boom")

	_, err := Remember(ctx, m, "e", GroupVote, time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := m.Get(ctx, "e", GroupVote)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	a := Key("polls", map[string]any{"status": "publish", "page": 1})
	b := Key("polls", map[string]any{"page": 1, "status": "publish"})
	c := Key("polls", map[string]any{"status": "draft", "page": 1})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "polls_")
}
