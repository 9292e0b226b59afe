package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

const defaultTTL = 24 * time.Hour

// CacheRepository stores cache entries in Redis under a key prefix
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCacheRepository creates a cache repository on top of client
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-cache"),
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value. Missing keys return outbound.ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, apperrors.NewCacheError("get "+key, err)
	}
	return data, nil
}

// Set stores a value with TTL. A zero TTL means one day.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewCacheError("set "+key, err)
	}
	return nil
}

// Delete removes a value
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewCacheError("delete "+key, err)
	}
	return nil
}

// Exists checks if a key is present
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Error("Cache exists check failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewCacheError("check "+key, err)
	}
	return n > 0, nil
}

// HealthCheck pings the server
func (r *CacheRepository) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *CacheRepository) key(key string) string {
	return r.prefix + key
}
