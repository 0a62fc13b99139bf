package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPendingClaimsOnce(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	claimed, err := store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestResultRoundTrip(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, ok, err := store.Result(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)

	// pending claim has no result yet
	_, ok, err = store.Result(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.StoreResult(ctx, "key-1", 77, time.Minute))

	id, ok, err := store.Result(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(77), id)
}

func TestReleaseFreesClaim(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key-1"))

	claimed, err := store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestExpiredClaimCanBeReclaimed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := store.MarkPending(ctx, "key-1", -time.Second)
	require.NoError(t, err)

	claimed, err := store.MarkPending(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}
