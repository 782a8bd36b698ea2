// Package cache implements core.Cache on Redis, with an in-process fallback
// used when no Redis is configured or it cannot be reached at startup.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/memberportal/internal/config"
	"github.com/JonMunkholm/memberportal/internal/core"
)

// KeyPrefix namespaces every key this application writes.
const KeyPrefix = "memberportal:"

// Redis is a core.Cache backed by a Redis server.
type Redis struct {
	client redis.Cmdable
}

var _ core.Cache = (*Redis)(nil)

// NewRedis wraps a connected client.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

// OpenRedis parses url, connects and pings.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns ok=false on a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Open returns the cache described by cfg and a close func. A missing or
// unreachable Redis falls back to an in-process cache.
func Open(ctx context.Context, cfg config.CacheConfig) (core.Cache, func()) {
	if !cfg.Enabled() {
		slog.Info("lookup cache: in-process (REDIS_URL not set)")
		return NewMemory(), func() {}
	}

	client, err := OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, falling back to in-process lookup cache", "error", err)
		return NewMemory(), func() {}
	}
	slog.Info("lookup cache: redis")
	return NewRedis(client), func() { client.Close() }
}

// ----------------------------------------------------------------------------
// In-process fallback
// ----------------------------------------------------------------------------

// Memory defaults.
const (
	DefaultMemoryEntries = 10000
	memorySweepInterval  = time.Minute
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a mutex-guarded map with per-entry expiry. Expired entries are
// swept at most once a minute from Set, and the map never holds more than
// maxEntries: when full, arbitrary entries are evicted to make room.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

var _ core.Cache = (*Memory)(nil)

// NewMemory creates an empty in-process cache holding up to
// DefaultMemoryEntries entries.
func NewMemory() *Memory {
	return NewMemoryWithLimit(DefaultMemoryEntries)
}

// NewMemoryWithLimit creates an empty in-process cache holding up to
// maxEntries entries. A limit below 1 uses DefaultMemoryEntries.
func NewMemoryWithLimit(maxEntries int) *Memory {
	if maxEntries < 1 {
		maxEntries = DefaultMemoryEntries
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores value; a ttl <= 0 never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(memorySweepInterval)
	}
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		m.evict(len(m.entries) - m.maxEntries + 1)
	}

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones not yet swept
// included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep drops expired entries. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
}

// evict drops n entries in map order. Callers hold mu.
func (m *Memory) evict(n int) {
	for k := range m.entries {
		if n <= 0 {
			return
		}
		delete(m.entries, k)
		n--
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
