// Package sqlitestorage implements the storage.Backend interface on a SQLite
// file. It wraps the GORM backend; the only SQLite specific concerns are
// opening the file and its pragmas.
package sqlitestorage

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rlstats/frameseries/internal/config"
	gormstorage "github.com/rlstats/frameseries/internal/storage/gorm"
)

var pragmas = []string{
	"PRAGMA journal_mode = MEMORY;",
	"PRAGMA synchronous = OFF;",
	"PRAGMA cache_size = -32000;",
	"PRAGMA temp_store = MEMORY;",
	"PRAGMA foreign_keys = ON;",
}

// Backend wraps the GORM backend for SQLite.
type Backend struct {
	*gormstorage.Backend
	path string
}

// New opens the SQLite database at cfg.Path. ":memory:" is accepted.
func New(cfg config.SQLiteConfig, log *slog.Logger) (*Backend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path not set")
	}

	db, err := Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("Using SQLite database", "path", cfg.Path)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log}),
		path:    cfg.Path,
	}, nil
}

// Open opens a SQLite database and applies the pragmas. The pool is limited
// to one connection so that in-memory databases are shared by every query.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}
