package mail_fx

import (
	"go.uber.org/fx"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
	"redcreativa/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg config.MailConfig) services.IMailService {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("sendgrid api key not set, emails will be skipped")
	}
	return services.NewMailService(cfg)
}
