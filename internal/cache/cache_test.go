package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = Close()
		mr.Close()
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	key := PostSlugKey("hello-ab")

	misses := testutil.ToFloat64(observability.CacheLookups.WithLabelValues("miss"))
	hits := testutil.ToFloat64(observability.CacheLookups.WithLabelValues("hit"))

	calls := 0
	fetch := func(dest *entry) func() error {
		return func() error {
			calls++
			*dest = entry{ID: 7, Title: "Hello"}
			return nil
		}
	}

	var first entry
	require.NoError(t, Aside(ctx, key, &first, PostTTL, fetch(&first)))
	assert.Equal(t, "Hello", first.Title)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, PostTTL, mr.TTL(key))

	var second entry
	require.NoError(t, Aside(ctx, key, &second, PostTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup is served from redis")

	assert.Equal(t, misses+1, testutil.ToFloat64(observability.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, hits+1, testutil.ToFloat64(observability.CacheLookups.WithLabelValues("hit")))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	key := CategoryKey(3)

	var dest entry
	err := Aside(ctx, key, &dest, CategoryTTL, func() error { return errors.New("not found") })
	assert.EqualError(t, err, "not found")
	assert.False(t, mr.Exists(key))
}

func TestAside_WithoutClientCallsFetch(t *testing.T) {
	SetClient(nil)
	var dest entry
	err := Aside(context.Background(), PostKey(1), &dest, time.Minute, func() error {
		dest.ID = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), dest.ID)
}

func TestAside_CorruptEntryFallsBackToFetch(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	key := PostKey(9)
	require.NoError(t, mr.Set(key, "{not json"))

	var dest entry
	err := Aside(ctx, key, &dest, PostTTL, func() error {
		dest = entry{ID: 9, Title: "Fresh"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", dest.Title)
}

func TestInvalidatePost(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, SetJSON(ctx, PostKey(5), entry{ID: 5}, PostTTL))
	require.NoError(t, SetJSON(ctx, PostSlugKey("five-xy"), entry{ID: 5}, PostTTL))

	InvalidatePost(ctx, 5, "five-xy")
	assert.False(t, mr.Exists(PostKey(5)))
	assert.False(t, mr.Exists(PostSlugKey("five-xy")))
}

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	InitRedis("redis://" + mr.Addr())
	assert.NotNil(t, client)
	require.NoError(t, Close())

	InitRedis("redis://%%bad")
	assert.Nil(t, client)

	InitRedis("")
	assert.Nil(t, client)
}
