package rediscache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintpass/internal/registry/models"
	"mintpass/internal/registry/store"
	"mintpass/internal/registry/store/memory"
)

// countingStore wraps the memory store and counts GetPass calls so tests can
// tell cache hits from misses.
type countingStore struct {
	store.Store
	getPassCalls int
}

func (c *countingStore) GetPass(ctx context.Context, id models.TokenID) (*models.Pass, error) {
	c.getPassCalls++
	return c.Store.GetPass(ctx, id)
}

func setupCache(t *testing.T) (*Cache, *countingStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingStore{Store: memory.New()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(inner, client, time.Minute, logger), inner, mr
}

func TestGetPass_ReadThrough(t *testing.T) {
	cache, inner, _ := setupCache(t)
	ctx := context.Background()

	pass := models.NewPass(1, time.Now().UTC())
	require.NoError(t, inner.Store.CreatePass(ctx, pass))

	got, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), got.TokenID)
	assert.Equal(t, 1, inner.getPassCalls)

	// second read is served from redis
	got, err = cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), got.TokenID)
	assert.Equal(t, 1, inner.getPassCalls)
}

func TestGetPass_NotFoundPassesThrough(t *testing.T) {
	cache, inner, _ := setupCache(t)

	_, err := cache.GetPass(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 1, inner.getPassCalls)
}

func TestCreatePass_Populates(t *testing.T) {
	cache, inner, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))

	_, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, inner.getPassCalls, "create should prime the cache")
}

func TestMintPass_Populates(t *testing.T) {
	cache, inner, _ := setupCache(t)
	ctx := context.Background()

	st := models.NewState(time.Now().UTC())
	st.NextTokenID = 2
	require.NoError(t, cache.MintPass(ctx, st, "0xa", models.NewPass(1, time.Now().UTC())))

	_, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, inner.getPassCalls, "mint should prime the cache")
}

func TestUpdatePass_Invalidates(t *testing.T) {
	cache, _, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))

	got, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	got.AccessLevel = 5
	require.NoError(t, cache.UpdatePass(ctx, got))

	got, err = cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.AccessLevel, "stale entry must not survive an update")
}

func TestApplyPoints_Invalidates(t *testing.T) {
	cache, _, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))
	_, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)

	total, err := cache.ApplyPoints(ctx, store.PointsAward{TokenID: 1, Holder: "0xaaa", Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, uint64(30), total)

	got, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got.Points)
}

func TestApplyAirdropBatch_InvalidatesAll(t *testing.T) {
	cache, _, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))
	require.NoError(t, cache.CreatePass(ctx, models.NewPass(2, time.Now().UTC())))

	err := cache.ApplyAirdropBatch(ctx, []store.AirdropUpdate{
		{TokenID: 1, Eligible: true, Multiplier: 150},
		{TokenID: 2, Eligible: true, Multiplier: 200},
	})
	require.NoError(t, err)

	for _, id := range []models.TokenID{1, 2} {
		got, err := cache.GetPass(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.AirdropEligible)
	}
}

func TestGetPass_RedisDownFallsBack(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, inner.Store.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))
	mr.Close()

	got, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TokenID(1), got.TokenID)
	assert.Equal(t, 1, inner.getPassCalls)
}

func TestEntryExpires(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.CreatePass(ctx, models.NewPass(1, time.Now().UTC())))

	mr.FastForward(2 * time.Minute)

	_, err := cache.GetPass(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getPassCalls, "expired entry should fall through to the store")
}
