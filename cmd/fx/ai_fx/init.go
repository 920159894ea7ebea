package ai_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"redcreativa/internal/api/controllers"
	"redcreativa/internal/config"
	"redcreativa/internal/logger"
	"redcreativa/internal/services"
)

var Module = fx.Provide(
	provideAIService,
	controllers.NewAIController,
)

func provideAIService(cfg config.AIConfig) services.AIServiceInterface {
	logger.Info("ai generation enabled",
		zap.String("default_provider", cfg.DefaultProvider),
		zap.Duration("timeout", cfg.Timeout))
	return services.NewAIService(cfg)
}
