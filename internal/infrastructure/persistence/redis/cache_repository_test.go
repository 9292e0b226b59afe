package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	pantryredis "github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
)

// CacheTestSuite runs the cache repository against Redis in a container.
// It is skipped in short mode or without Docker.
type CacheTestSuite struct {
	suite.Suite
	container testcontainers.Container
	cache     *pantryredis.CacheRepository
	ctx       context.Context
}

func TestCacheTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(CacheTestSuite))
}

func TestCacheRepository_UnreachableServerIsCacheError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := pantryredis.NewCacheRepository(client, "test:", zap.NewNop())
	ctx := context.Background()

	_, err := cache.Get(ctx, "report")
	testutils.AssertAppError(t, err, apperrors.CodeCacheError)
	assert.NotErrorIs(t, err, outbound.ErrCacheMiss)

	testutils.AssertAppError(t, cache.Set(ctx, "report", []byte("x"), time.Minute), apperrors.CodeCacheError)
	testutils.AssertAppError(t, cache.Delete(ctx, "report"), apperrors.CodeCacheError)
	_, err = cache.Exists(ctx, "report")
	testutils.AssertAppError(t, err, apperrors.CodeCacheError)
}

func (s *CacheTestSuite) SetupSuite() {
	s.ctx = context.Background()
	port := nat.Port("6379/tcp")

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{string(port)},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		s.T().Skipf("redis container unavailable: %v", err)
	}
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	mapped, err := container.MappedPort(s.ctx, port)
	s.Require().NoError(err)

	cfg := &config.Config{Redis: config.RedisConfig{
		Host:        host,
		Port:        mapped.Int(),
		PoolSize:    4,
		DialTimeout: 5 * time.Second,
	}}
	client, err := pantryredis.NewClient(cfg, zap.NewNop())
	s.Require().NoError(err)

	s.cache = pantryredis.NewCacheRepository(client, "test:", zap.NewNop())
}

func (s *CacheTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *CacheTestSuite) TestMissIsErrCacheMiss() {
	_, err := s.cache.Get(s.ctx, "absent")
	s.ErrorIs(err, outbound.ErrCacheMiss)
}

func (s *CacheTestSuite) TestSetGetDelete() {
	s.Require().NoError(s.cache.Set(s.ctx, "report", []byte(`{"total":3}`), time.Minute))

	data, err := s.cache.Get(s.ctx, "report")
	s.Require().NoError(err)
	s.JSONEq(`{"total":3}`, string(data))

	exists, err := s.cache.Exists(s.ctx, "report")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.cache.Delete(s.ctx, "report"))
	exists, err = s.cache.Exists(s.ctx, "report")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *CacheTestSuite) TestEntriesExpire() {
	s.Require().NoError(s.cache.Set(s.ctx, "short", []byte("x"), 50*time.Millisecond))

	s.Eventually(func() bool {
		_, err := s.cache.Get(s.ctx, "short")
		return err == outbound.ErrCacheMiss
	}, 2*time.Second, 25*time.Millisecond)
}

func (s *CacheTestSuite) TestHealthCheck() {
	s.NoError(s.cache.HealthCheck(s.ctx))
}
