package mem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers signed-out session ids until their token would
// have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type MemoryRevocations struct {
	mu   sync.Mutex
	data map[string]time.Time
	now  func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{data: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.data {
		if now.After(exp) {
			delete(s.data, id)
		}
	}
	s.data[sessionID] = until
	return nil
}

func (s *MemoryRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.data[sessionID]
	return ok && !s.now().After(exp), nil
}

type RedisRevocations struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRevocations(rdb *redis.Client, prefix string) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, prefix: prefix}
}

func (s *RedisRevocations) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	const op = "mem.RedisRevocations.Revoke"
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, s.prefix+":"+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisRevocations) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	const op = "mem.RedisRevocations.IsRevoked"
	n, err := s.rdb.Exists(ctx, s.prefix+":"+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
