package mem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps single-use tokens (email confirmation) mapped to a value.
type TokenStore interface {
	Set(ctx context.Context, token, value string, ttl time.Duration) error

	// Consume returns the value for token if not expired and removes the
	// token. Returns "" if missing or expired.
	Consume(ctx context.Context, token string) (string, error)

	Peek(ctx context.Context, token string) (string, bool, error)
}

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryTokens struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryTokens) Set(_ context.Context, token, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokens) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok {
		return "", nil
	}
	delete(s.data, token)
	if s.now().After(e.expiresAt) {
		return "", nil
	}
	return e.value, nil
}

func (s *MemoryTokens) Peek(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[token]
	if !ok || s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

type RedisTokens struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisTokens(rdb *redis.Client, prefix string) *RedisTokens {
	return &RedisTokens{rdb: rdb, prefix: prefix}
}

func (s *RedisTokens) key(token string) string {
	return s.prefix + ":" + token
}

func (s *RedisTokens) Set(ctx context.Context, token, value string, ttl time.Duration) error {
	const op = "mem.RedisTokens.Set"
	if err := s.rdb.Set(ctx, s.key(token), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisTokens) Consume(ctx context.Context, token string) (string, error) {
	const op = "mem.RedisTokens.Consume"
	val, err := s.rdb.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

func (s *RedisTokens) Peek(ctx context.Context, token string) (string, bool, error) {
	const op = "mem.RedisTokens.Peek"
	val, err := s.rdb.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}
