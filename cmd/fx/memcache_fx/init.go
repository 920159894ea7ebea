package memcache_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/infra"
	"redcreativa/internal/logger"
	mem "redcreativa/pkg/memcache"
)

const keyPrefix = "rcp:"

var Module = fx.Provide(
	provideRedis,
	provideTokenStore,
	provideRevocations,
	provideLocalStorage,
)

// provideRedis returns a nil client when redis is not configured; the stores
// below then fall back to process memory.
func provideRedis(lc fx.Lifecycle, cfg config.RedisConfig) (*redis.Client, error) {
	rdb, err := infra.InitRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Warn("redis not configured, using in-memory stores")
		return nil, nil
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	lc.Append(fx.StopHook(func() error {
		return rdb.Close()
	}))
	return rdb, nil
}

func provideTokenStore(rdb *redis.Client) mem.TokenStore {
	if rdb == nil {
		return mem.NewMemoryTokens()
	}
	return mem.NewRedisTokens(rdb, keyPrefix+"confirm:")
}

func provideRevocations(rdb *redis.Client) mem.RevocationStore {
	if rdb == nil {
		return mem.NewMemoryRevocations()
	}
	return mem.NewRedisRevocations(rdb, keyPrefix+"revoked:")
}

func provideLocalStorage(rdb *redis.Client, cfg config.AuthConfig) mem.LocalStorage {
	if rdb == nil {
		return mem.NewMemoryLocalStorage()
	}
	// Outlives the in-process context so a returning client keeps its session.
	return mem.NewRedisLocalStorage(rdb, keyPrefix+"client:", cfg.TokenTTL)
}
