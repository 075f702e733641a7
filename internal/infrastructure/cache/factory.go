package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const inMemorySweepInterval = 5 * time.Minute

// IdempotencyStoreFactory picks the idempotency store for the deployment
type IdempotencyStoreFactory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
	connect       func(context.Context, config.RedisConfig) (*redis.Client, error)
	client        *redis.Client
}

// NewIdempotencyStoreFactory creates a new factory. With allowFallback an
// unreachable Redis degrades to the in-memory store instead of failing.
func NewIdempotencyStoreFactory(cfg config.RedisConfig, allowFallback bool, logger *zap.Logger) *IdempotencyStoreFactory {
	return &IdempotencyStoreFactory{
		redisConfig:   cfg,
		logger:        logger,
		allowFallback: allowFallback,
		connect:       NewRedisClient,
	}
}

// CreateStore returns a Redis store when Redis is configured, otherwise an in-memory one
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled() {
		f.logger.Info("redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(inMemorySweepInterval), nil
	}

	client, err := f.connect(ctx, f.redisConfig)
	if err == nil {
		f.client = client
		f.logger.Info("using redis idempotency store", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisIdempotencyStore(client, DefaultIdempotencyKeyPrefix), nil
	}
	if !f.allowFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
	return NewInMemoryIdempotencyStore(inMemorySweepInterval), nil
}

// Client returns the Redis client opened by CreateStore, or nil when the
// in-memory store was chosen.
func (f *IdempotencyStoreFactory) Client() *redis.Client {
	return f.client
}
