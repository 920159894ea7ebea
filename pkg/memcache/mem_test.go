package mem

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTokenStores(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupRedis(t)

	stores := map[string]TokenStore{
		"memory": NewMemoryTokens(),
		"redis":  NewRedisTokens(rdb, "test:confirm"),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "tok", "ana@example.com", time.Hour))

			v, ok, err := store.Peek(ctx, "tok")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "ana@example.com", v)

			v, err = store.Consume(ctx, "tok")
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", v)

			v, err = store.Consume(ctx, "tok")
			require.NoError(t, err)
			assert.Empty(t, v, "tokens are single use")
		})
	}
}

func TestMemoryTokens_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokens()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "tok", "v", time.Minute))
	now = now.Add(2 * time.Minute)

	_, ok, _ := store.Peek(ctx, "tok")
	assert.False(t, ok)
	v, err := store.Consume(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRedisTokens_Expired(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	store := NewRedisTokens(rdb, "test:confirm")

	require.NoError(t, store.Set(ctx, "tok", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	v, err := store.Consume(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestLocalStorages(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupRedis(t)

	stores := map[string]LocalStorage{
		"memory": NewMemoryLocalStorage(),
		"redis":  NewRedisLocalStorage(rdb, "test:ls", time.Hour),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "client-a", "demoUser", `{"name":"Demo"}`))
			require.NoError(t, store.Set(ctx, "client-a", "ai_provider", "gemini"))
			require.NoError(t, store.Set(ctx, "client-b", "demoUser", "other"))

			v, ok, err := store.Get(ctx, "client-a", "demoUser")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"name":"Demo"}`, v)

			require.NoError(t, store.Delete(ctx, "client-a", "demoUser"))
			_, ok, err = store.Get(ctx, "client-a", "demoUser")
			require.NoError(t, err)
			assert.False(t, ok)

			v, ok, _ = store.Get(ctx, "client-a", "ai_provider")
			assert.True(t, ok)
			assert.Equal(t, "gemini", v)

			require.NoError(t, store.Clear(ctx, "client-a"))
			_, ok, _ = store.Get(ctx, "client-a", "ai_provider")
			assert.False(t, ok)

			v, ok, _ = store.Get(ctx, "client-b", "demoUser")
			assert.True(t, ok, "clients are isolated")
			assert.Equal(t, "other", v)
		})
	}
}

func TestRedisLocalStorage_RefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupRedis(t)
	store := NewRedisLocalStorage(rdb, "test:ls", time.Hour)

	require.NoError(t, store.Set(ctx, "c", "k", "v"))
	assert.Equal(t, time.Hour, mr.TTL("test:ls:c"))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Set(ctx, "c", "k2", "v2"))
	assert.Equal(t, time.Hour, mr.TTL("test:ls:c"))
}

func TestRevocationStores(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupRedis(t)

	stores := map[string]RevocationStore{
		"memory": NewMemoryRevocations(),
		"redis":  NewRedisRevocations(rdb, "test:revoked"),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			revoked, err := store.IsRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.False(t, revoked)

			require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
			revoked, err = store.IsRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.True(t, revoked)

			require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
			revoked, _ = store.IsRevoked(ctx, "jti-2")
			assert.False(t, revoked, "already expired sessions need no entry")
		})
	}
}
