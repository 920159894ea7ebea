package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"redcreativa/cmd/fx/ai_fx"
	"redcreativa/cmd/fx/config_fx"
	"redcreativa/cmd/fx/content_fx"
	"redcreativa/cmd/fx/controllers_fx"
	"redcreativa/cmd/fx/dashboard_fx"
	"redcreativa/cmd/fx/db_fx"
	"redcreativa/cmd/fx/events_fx"
	"redcreativa/cmd/fx/identity_fx"
	"redcreativa/cmd/fx/mail_fx"
	"redcreativa/cmd/fx/memcache_fx"
	"redcreativa/cmd/fx/payment_service_fx"
	"redcreativa/internal/config"
	"redcreativa/internal/logger"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		events_fx.Module,
		mail_fx.Module,
		identity_fx.Module,
		content_fx.Module,
		ai_fx.Module,
		payment_service_fx.Module,
		dashboard_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
