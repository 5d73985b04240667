package cache

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(enabled bool) *InMemoryCache {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = enabled
	return NewInMemoryCache(cfg, logger.NewNopLogger())
}

func TestInMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	key := GenerateKey(PrefixDocument, "doc_01")
	assert.Equal(t, "document:v1:doc_01", key)

	c.Set(ctx, key, []byte("%PDF"), 0)
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF"), got)

	c.Delete(ctx, key)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	c.Set(ctx, "short", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok)
}

func TestInMemoryCacheDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	c.Set(ctx, GenerateKey(PrefixDocument, "a"), 1, 0)
	c.Set(ctx, GenerateKey(PrefixDocument, "b"), 2, 0)
	c.Set(ctx, "other", 3, 0)

	c.DeleteByPrefix(ctx, PrefixDocument)
	assert.Equal(t, 1, c.ItemCount())

	c.Flush(ctx)
	assert.Zero(t, c.ItemCount())
}

func TestInMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(false)

	c.Set(ctx, "k", 1, 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, c.ItemCount())
}
