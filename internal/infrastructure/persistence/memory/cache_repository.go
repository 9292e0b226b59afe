// Package memory provides in-memory repository implementations, used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

const defaultCacheTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !now.Before(i.expiresAt)
}

// CacheRepository implements an in-memory cache with per-key expiry
type CacheRepository struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || item.expired(r.now()) {
		return nil, outbound.ErrCacheMiss
	}
	return append([]byte(nil), item.value...), nil
}

// Set stores a value in cache with TTL. A zero TTL means one day.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = cacheItem{
		value:     append([]byte(nil), value...),
		expiresAt: r.now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	return exists && !item.expired(r.now()), nil
}

// Run evicts expired items every interval until ctx is done
func (r *CacheRepository) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictExpired()
		}
	}
}

func (r *CacheRepository) evictExpired() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	evicted := 0
	for key, item := range r.data {
		if item.expired(now) {
			delete(r.data, key)
			evicted++
		}
	}
	return evicted
}
