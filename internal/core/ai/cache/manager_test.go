package cache

import (
	"context"
	"testing"
	"time"

	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int) *CacheManager {
	t.Helper()
	m := NewManager(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	require.NotNil(t, m)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestCacheManager_SetGet(t *testing.T) {
	m := newTestManager(t, 10)
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	val, ok := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	stats := m.GetStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.001)
}

func TestCacheManager_Expiry(t *testing.T) {
	m := newTestManager(t, 10)
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", "v"))

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.GetStats().Evictions)
}

func TestCacheManager_EvictsLeastUsed(t *testing.T) {
	m := newTestManager(t, 2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, _ = m.Get(ctx, "a")

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, ok := m.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestCacheManager_Disabled(t *testing.T) {
	m := NewManager(&config.CacheConfig{Enabled: false})
	assert.Nil(t, m)

	_, ok := m.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.ErrorIs(t, m.Set(context.Background(), "k", "v"), common.ErrCacheDisabled)
	assert.Equal(t, Stats{}, m.GetStats())
	assert.NoError(t, m.Close())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("make  a\n drink"), Key("make a drink"))
	assert.NotEqual(t, Key("make a drink"), Key("make a cocktail"))
	assert.Contains(t, Key("x"), "text:")
}
