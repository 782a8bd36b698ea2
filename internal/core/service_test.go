package core_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/memberportal/internal/core"
	_ "github.com/JonMunkholm/memberportal/internal/core/forms"
	"github.com/JonMunkholm/memberportal/internal/memstore"
)

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// mapCache is an in-memory core.Cache that counts hits.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	err  error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

type fixture struct {
	svc   *core.Service
	store *memstore.Store
	cache *mapCache
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memstore.New(),
		cache: newMapCache(),
		clock: newClock(),
	}
	f.svc = core.NewService(f.store, f.cache, core.Options{
		DraftTTL:         24 * time.Hour,
		LookupTimeout:    time.Second,
		LookupMaxResults: 5,
		LogoMaxSize:      1024,
		SessionTTL:       time.Hour,
		Now:              f.clock.Now,
	})
	return f
}
