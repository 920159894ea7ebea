package controllers_fx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redcreativa/internal/api/controllers"
	"redcreativa/pkg/middleware"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(provideHealthController),
	fx.Provide(provideMetrics))

func provideHealthController(db *gorm.DB, rdb *redis.Client) *controllers.HealthController {
	checks := []controllers.HealthCheck{{
		Name: "postgres",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, controllers.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		})
	}
	return controllers.NewHealthController(checks...)
}

func provideMetrics() *middleware.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return middleware.NewMetrics(reg)
}
