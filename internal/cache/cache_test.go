package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverland/property-agent/pkg/logging"
)

func TestKeyIsStableAcrossParamOrder(t *testing.T) {
	a := Key(NamespaceIntent, map[string]string{"message": "hello", "lang": "en"})
	b := Key(NamespaceIntent, map[string]string{"lang": "en", "message": "hello"})
	assert.Equal(t, a, b)
	assert.Contains(t, a, "intent:")
}

func TestKeyDiffersByNamespaceAndParams(t *testing.T) {
	base := Key(NamespaceIntent, map[string]string{"message": "hello"})
	assert.NotEqual(t, base, Key(NamespacePropertySearch, map[string]string{"message": "hello"}))
	assert.NotEqual(t, base, Key(NamespaceIntent, map[string]string{"message": "goodbye"}))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "show me dubai", NormalizeText("  Show Me Dubai  "))
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	base := time.Now()
	c.now = func() time.Time { return base }

	ctx := context.Background()
	c.Set(ctx, "k", "v", time.Minute)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisCache(client, logging.Default())
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, Key(NamespaceIntent, map[string]string{"message": "hi"}), "greeting", time.Minute)
	got, ok := c.Get(ctx, Key(NamespaceIntent, map[string]string{"message": "hi"}))
	require.True(t, ok)
	assert.Equal(t, "greeting", got)

	server.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, Key(NamespaceIntent, map[string]string{"message": "hi"}))
	assert.False(t, ok)
}

func TestRedisCacheBackendFailureIsMiss(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisCache(client, logging.Default())

	server.Close()

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
