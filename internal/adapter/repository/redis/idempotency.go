package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
)

// processingMarker holds an idempotency key while the first request runs.
const processingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client *redis.Client, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "idempotency:",
		metrics: m,
	}
}

// CheckAndSet atomically claims key. When the key is already held it reports
// true with the stored value, which is the processing marker while the first
// request is still running. A nil response claims the key with the marker.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = processingMarker
	if response != nil {
		value = response
	}

	s.observe("setnx")
	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		s.fail("setnx")
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	s.observe("get")
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between the two calls; the caller may retry.
			return true, nil, nil
		}
		s.fail("get")
		return false, nil, err
	}

	return true, existing, nil
}

// Update stores the final response under key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.observe("set")
	if err := s.client.Set(ctx, s.prefix+key, response, ttl).Err(); err != nil {
		s.fail("set")
		return err
	}
	return nil
}

// Release drops a key so a failed request can be retried with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.observe("del")
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.fail("del")
		return err
	}
	return nil
}

// IsProcessing reports whether value is the in-flight marker.
func IsProcessing(value []byte) bool {
	return string(value) == processingMarker
}

func (s *IdempotencyStore) observe(op string) {
	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues(op).Inc()
	}
}

func (s *IdempotencyStore) fail(op string) {
	if s.metrics != nil {
		s.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
