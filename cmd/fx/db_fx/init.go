package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redcreativa/internal/config"
	"redcreativa/internal/infra"
	"redcreativa/internal/logger"
)

var Module = fx.Provide(
	provideDB)

func provideDB(lc fx.Lifecycle, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := infra.Migrate(db, cfg); err != nil {
			infra.ClosePostgresql(db)
			return nil, err
		}
		logger.Info("database migrated")
	}

	lc.Append(fx.StopHook(func() {
		infra.ClosePostgresql(db)
	}))
	return db, nil
}
