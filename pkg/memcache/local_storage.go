package mem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocalStorage is a per-client key/value store, the server side stand-in for
// a browser's localStorage.
type LocalStorage interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID string, keys ...string) error
	Clear(ctx context.Context, clientID string) error
}

type MemoryLocalStorage struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{data: make(map[string]map[string]string)}
}

func (s *MemoryLocalStorage) Get(_ context.Context, clientID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[clientID][key]
	return v, ok, nil
}

func (s *MemoryLocalStorage) Set(_ context.Context, clientID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[clientID]
	if !ok {
		bucket = make(map[string]string)
		s.data[clientID] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *MemoryLocalStorage) Delete(_ context.Context, clientID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.data[clientID]
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.data, clientID)
	}
	return nil
}

func (s *MemoryLocalStorage) Clear(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, clientID)
	return nil
}

// RedisLocalStorage keeps one hash per client. Every write pushes the
// expiry forward by ttl.
type RedisLocalStorage struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocalStorage(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLocalStorage {
	return &RedisLocalStorage{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisLocalStorage) key(clientID string) string {
	return s.prefix + ":" + clientID
}

func (s *RedisLocalStorage) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	const op = "mem.RedisLocalStorage.Get"
	val, err := s.rdb.HGet(ctx, s.key(clientID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

func (s *RedisLocalStorage) Set(ctx context.Context, clientID, key, value string) error {
	const op = "mem.RedisLocalStorage.Set"
	k := s.key(clientID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisLocalStorage) Delete(ctx context.Context, clientID string, keys ...string) error {
	const op = "mem.RedisLocalStorage.Delete"
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.HDel(ctx, s.key(clientID), keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RedisLocalStorage) Clear(ctx context.Context, clientID string) error {
	const op = "mem.RedisLocalStorage.Clear"
	if err := s.rdb.Del(ctx, s.key(clientID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
