// Package gueststore persists points for visitors who have not signed in.
// Balances are keyed by an opaque client-supplied guest key and expire so
// abandoned guests do not accumulate forever.
package gueststore

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the guest balance port used by the points ledger.
type Store interface {
	GetPoints(ctx context.Context, guestKey string) (int, error)
	SetPoints(ctx context.Context, guestKey string, points int) error
}

const keyPrefix = "rewards:guest:"

// RedisStore keeps guest balances in redis with a TTL refreshed on write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing redis client. A non-positive ttl defaults
// to 30 days.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetPoints(ctx context.Context, guestKey string) (int, error) {
	val, err := s.client.Get(ctx, keyPrefix+guestKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	points, err := strconv.Atoi(val)
	if err != nil {
		// Treat a corrupted value as an empty balance rather than
		// blocking the guest's earn.
		return 0, nil
	}
	return points, nil
}

func (s *RedisStore) SetPoints(ctx context.Context, guestKey string, points int) error {
	return s.client.Set(ctx, keyPrefix+guestKey, strconv.Itoa(points), s.ttl).Err()
}

// MemoryStore is an in-process fallback used when no redis is configured.
// Balances do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string]int)}
}

func (s *MemoryStore) GetPoints(_ context.Context, guestKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points[guestKey], nil
}

func (s *MemoryStore) SetPoints(_ context.Context, guestKey string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[guestKey] = points
	return nil
}
