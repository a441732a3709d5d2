package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posConfig struct {
	ID       uint   `json:"id"`
	BankName string `json:"bankName"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache("store")
	key := c.GenerateKey("pos", "1")
	assert.Equal(t, "store:pos:1", key)

	var got posConfig
	found, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, key, posConfig{ID: 1, BankName: "Ziraat"}, time.Minute))
	found, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ziraat", got.BankName)

	require.NoError(t, c.Delete(ctx, key))
	found, _ = c.Get(ctx, key, &got)
	assert.False(t, found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache("store").(*memoryCache)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", 42, time.Minute))
	now = now.Add(2 * time.Minute)

	var v int
	found, err := mc.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("://nope", "store")
	assert.Error(t, err)
}
