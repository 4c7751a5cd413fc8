package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vendorPage struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func newTestCache(t *testing.T) (*QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewQueryCacheWithClient(client, "test:cache"), mr
}

func TestGetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var page vendorPage
	err := cache.Get("vendors", "list:page=1", &page)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSetAndGet(t *testing.T) {
	cache, _ := newTestCache(t)

	want := vendorPage{Items: []string{"V001", "V002"}, Total: 2}
	require.NoError(t, cache.Set("vendors", "list:page=1", &want, time.Minute))

	var got vendorPage
	require.NoError(t, cache.Get("vendors", "list:page=1", &got))
	assert.Equal(t, want, got)
}

func TestSetRespectsTTL(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Set("vendors", "stats", &vendorPage{Total: 5}, 30*time.Second))

	// 过了TTL之后缓存未命中
	mr.FastForward(31 * time.Second)

	var got vendorPage
	assert.ErrorIs(t, cache.Get("vendors", "stats", &got), ErrMiss)
}

func TestInvalidateRemovesWholeResource(t *testing.T) {
	cache, _ := newTestCache(t)

	require.NoError(t, cache.Set("vendors", "list:page=1", &vendorPage{Total: 1}, time.Minute))
	require.NoError(t, cache.Set("vendors", "list:page=2", &vendorPage{Total: 1}, time.Minute))
	require.NoError(t, cache.Set("vendors", "detail:7", &vendorPage{Total: 1}, time.Minute))
	require.NoError(t, cache.Set("riders", "list:page=1", &vendorPage{Total: 1}, time.Minute))

	require.NoError(t, cache.Invalidate("vendors"))

	var got vendorPage
	assert.ErrorIs(t, cache.Get("vendors", "list:page=1", &got), ErrMiss)
	assert.ErrorIs(t, cache.Get("vendors", "list:page=2", &got), ErrMiss)
	assert.ErrorIs(t, cache.Get("vendors", "detail:7", &got), ErrMiss)

	// 其他资源不受影响
	assert.NoError(t, cache.Get("riders", "list:page=1", &got))
}

func TestInvalidateMultipleResources(t *testing.T) {
	cache, _ := newTestCache(t)

	require.NoError(t, cache.Set("orders", "list:page=1", &vendorPage{Total: 1}, time.Minute))
	require.NoError(t, cache.Set("riders", "stats", &vendorPage{Total: 1}, time.Minute))

	require.NoError(t, cache.Invalidate("orders", "riders"))

	var got vendorPage
	assert.ErrorIs(t, cache.Get("orders", "list:page=1", &got), ErrMiss)
	assert.ErrorIs(t, cache.Get("riders", "stats", &got), ErrMiss)
}

func TestInvalidateEmptyResourceIsNoop(t *testing.T) {
	cache, _ := newTestCache(t)
	assert.NoError(t, cache.Invalidate("nonexistent"))
}

func TestPrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	a := NewQueryCacheWithClient(client, "tenant-a")
	b := NewQueryCacheWithClient(client, "tenant-b")

	require.NoError(t, a.Set("vendors", "stats", &vendorPage{Total: 1}, time.Minute))
	require.NoError(t, b.Set("vendors", "stats", &vendorPage{Total: 2}, time.Minute))

	require.NoError(t, a.Invalidate("vendors"))

	var got vendorPage
	assert.ErrorIs(t, a.Get("vendors", "stats", &got), ErrMiss)
	require.NoError(t, b.Get("vendors", "stats", &got))
	assert.Equal(t, int64(2), got.Total)
}
