package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultIdempotencyKeyPrefix namespaces the registry's keys in a shared Redis
const DefaultIdempotencyKeyPrefix = "actor-registry:event:"

// RedisIdempotencyStore implements shared.IdempotencyStore on Redis so every
// server instance shares one view of delivered events.
type RedisIdempotencyStore struct {
	client    redis.Cmdable
	keyPrefix string
	closer    func() error
}

// NewRedisIdempotencyStore creates a store on an existing client. Close closes the client.
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = DefaultIdempotencyKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
		closer:    client.Close,
	}
}

// MarkProcessed uses SET NX so concurrent deliveries of one event agree on a single winner
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event %s processed: %w", eventID, err)
	}
	return ok, nil
}

// IsProcessed implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Remove implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) Remove(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("remove event %s: %w", eventID, err)
	}
	return nil
}

// Close implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
