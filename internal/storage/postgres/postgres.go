// Package postgres implements the storage.Backend interface on PostgreSQL
// by wrapping the GORM backend.
package postgres

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rlstats/frameseries/internal/config"
	gormstorage "github.com/rlstats/frameseries/internal/storage/gorm"
)

// Backend wraps the GORM backend for Postgres.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres and validates the connection.
func New(cfg config.PostgresConfig, log *slog.Logger) (*Backend, error) {
	if log != nil {
		log.Debug("Connecting to Postgres", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)
	}

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        10000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log, BatchSize: 10000}),
	}, nil
}

// Dialector returns the GORM dialector for cfg.
func Dialector(cfg config.PostgresConfig) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	})
}
