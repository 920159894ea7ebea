package events_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/events"
	"redcreativa/internal/infra"
	"redcreativa/internal/logger"
)

var Module = fx.Provide(providePublisher)

func providePublisher(lc fx.Lifecycle, cfg config.AMQPConfig) (events.Publisher, error) {
	if cfg.URL == "" {
		logger.Warn("amqp not configured, domain events are dropped")
		return events.NopPublisher{}, nil
	}

	conn, err := infra.ConnectAMQP(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := infra.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("amqp connected", zap.String("exchange", cfg.Exchange))
	publisher := events.NewAMQPPublisher(conn, ch, cfg.Exchange)
	lc.Append(fx.StopHook(publisher.Close))
	return publisher, nil
}
