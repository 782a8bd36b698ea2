package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/config"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`[{"postalCode":"10110"}]`)
	require.NoError(t, m.Set(ctx, "lookup:addr:20:101", value, time.Minute))
	value[0] = 'x'

	got, ok, err := m.Get(ctx, "lookup:addr:20:101")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('['), got[0], "stored value is a copy")
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, m.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(time.Second)
	_, ok, _ := m.Get(ctx, "short")
	assert.False(t, ok, "expired at exactly ttl")
	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len(), "expired entry is dropped on read")
}

func TestMemorySweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	for i := 0; i < 500; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("lookup:addr:20:%d", i), []byte("[]"), time.Minute))
	}
	require.Equal(t, 500, m.Len())

	now = now.Add(time.Hour)
	require.NoError(t, m.Set(ctx, "lookup:addr:20:new", []byte("[]"), time.Minute))
	assert.Equal(t, 1, m.Len(), "expired keys are swept without being read")
}

func TestMemoryBoundsEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWithLimit(3)

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
		assert.LessOrEqual(t, m.Len(), 3)
	}
	_, ok, err := m.Get(ctx, "k9")
	require.NoError(t, err)
	assert.True(t, ok, "newest entry is kept")

	require.NoError(t, m.Set(ctx, "k9", []byte("w"), 0))
	assert.Equal(t, 3, m.Len(), "overwriting does not evict")
}

func TestOpenFallsBack(t *testing.T) {
	c, closeFn := Open(context.Background(), config.CacheConfig{})
	defer closeFn()
	_, isMemory := c.(*Memory)
	assert.True(t, isMemory)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, closeFn2 := Open(ctx, config.CacheConfig{RedisURL: "redis://127.0.0.1:1/0"})
	defer closeFn2()
	_, isMemory = c.(*Memory)
	assert.True(t, isMemory, "unreachable redis falls back")
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := OpenRedis(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	r := NewRedis(client)
	key := "test:" + uuid.NewString()

	_, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, key, []byte("value"), time.Minute))
	got, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, client.Del(ctx, KeyPrefix+key).Err())
}
