package config_fx

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
)

// ConfigFileEnv optionally points at a config.yaml outside the working dir.
const ConfigFileEnv = "RCP_CONFIG_FILE"

var Module = fx.Options(
	fx.Provide(
		provideConfig,
		provideLogger,
		func(cfg *config.Config) config.DatabaseConfig { return cfg.Database },
		func(cfg *config.Config) config.RedisConfig { return cfg.Redis },
		func(cfg *config.Config) config.AMQPConfig { return cfg.AMQP },
		func(cfg *config.Config) config.AuthConfig { return cfg.Auth },
		func(cfg *config.Config) config.MailConfig { return cfg.Mail },
		func(cfg *config.Config) config.BillingConfig { return cfg.Billing },
		func(cfg *config.Config) config.AIConfig { return cfg.AI },
	),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

func provideConfig() (*config.Config, error) {
	return config.Load(os.Getenv(ConfigFileEnv))
}

// provideLogger installs the global logger the rest of the code logs through.
func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	if err := logger.InitLogger(cfg.Logging); err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger.GetLogger(), nil
}
