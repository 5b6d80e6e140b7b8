package service

import (
	"context"
	"sync"
	"time"

	"github.com/zyedidia/generic/cache"
)

// Cache defines the interface for caching check results
type Cache interface {
	// Ping tests the cache connection
	Ping(ctx context.Context) error

	// Set stores a key-value pair; a zero expiration never expires
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Get retrieves a value by key, returning "" for a missing key
	Get(ctx context.Context, key string) (string, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Close releases the cache
	Close() error
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process LRU cache.
type MemoryCache struct {
	mu  sync.Mutex
	lru *cache.Cache[string, memoryEntry]
	now func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an LRU cache holding at most size entries.
func NewMemoryCache(size int) *MemoryCache {
	if size < 1 {
		size = 1
	}
	return &MemoryCache{
		lru: cache.New[string, memoryEntry](size),
		now: time.Now,
	}
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expires = m.now().Add(expiration)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Put(key, e)
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lru.Get(key)
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return "", nil
	}
	return e.value, nil
}

func (m *MemoryCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.lru.Remove(k)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Size()
}

func (m *MemoryCache) Close() error {
	return nil
}
