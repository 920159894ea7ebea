package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"redcreativa/internal/config"
)

// InitRedis returns nil, nil when no address is configured.
func InitRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	const op = "infra.InitRedis"
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rdb, nil
}
