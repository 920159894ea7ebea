package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
)

func InitPostgresql(cfg config.DatabaseConfig) (*gorm.DB, error) {
	const op = "infra.InitPostgresql"

	connectionPool, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return connectionPool, nil
}

// Migrate creates the vector extension (when enabled) and auto-migrates
// every table.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig) error {
	const op = "infra.Migrate"
	if cfg.EnableVector {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("%s: enable pgvector: %w", op, err)
		}
	}
	if err := db.AutoMigrate(db_models.All()...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed successfully")
	}
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		logger.Error("Error starting transaction", zap.Error(tx.Error))
	}
	return tx
}

func ReleaseTransaction(tx *gorm.DB, err error) {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			logger.Error("Error rolling back transaction", zap.Error(rollbackErr), zap.NamedError("cause", err))
		}
		return
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		logger.Error("Error committing transaction", zap.Error(commitErr))
	}
}
