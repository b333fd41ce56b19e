package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "missing", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry must expire with its TTL")
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			*dest = payload{Name: "fresh", Count: fetches}
			return nil
		}
	}

	var first payload
	hit, err := Aside(ctx, "aside", &first, time.Minute, fetch(&first))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, fetches)

	var second payload
	hit, err = Aside(ctx, "aside", &second, time.Minute, fetch(&second))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, fetches, "cache hit must not refetch")
	assert.Equal(t, first, second)
}

func TestInvalidateFeeds(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	for _, sort := range feedSorts {
		require.NoError(t, SetJSON(ctx, FeedKey(sort), payload{}, time.Minute))
	}
	require.NoError(t, SetJSON(ctx, ConfessionKey(7), payload{}, time.Minute))

	InvalidateFeeds(ctx)
	for _, sort := range feedSorts {
		assert.False(t, mr.Exists(FeedKey(sort)))
	}
	assert.True(t, mr.Exists(ConfessionKey(7)), "single-confession entries survive a feed invalidation")

	InvalidateConfession(ctx, 7)
	assert.False(t, mr.Exists(ConfessionKey(7)))
}

func TestNilClientDegradation(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "k", payload{}, time.Minute))

	fetched := false
	var dest payload
	hit, err := Aside(ctx, "k", &dest, time.Minute, func() error {
		fetched = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, fetched, "without redis every read goes to the source")
}
