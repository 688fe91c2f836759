package main

import (
	"fmt"
	"log/slog"

	"github.com/rlstats/frameseries/internal/config"
	"github.com/rlstats/frameseries/internal/storage"
	"github.com/rlstats/frameseries/internal/storage/influx"
	"github.com/rlstats/frameseries/internal/storage/memory"
	pgstorage "github.com/rlstats/frameseries/internal/storage/postgres"
	sqlitestorage "github.com/rlstats/frameseries/internal/storage/sqlite"
)

func createStorageBackend(storageCfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		backend, err := pgstorage.New(storageCfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		logger.Info("Postgres storage backend initialized")
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		logger.Info("SQLite storage backend initialized", "path", backend.Path())
		return backend, nil

	case "influx":
		logger.Info("InfluxDB storage backend initialized", "url", storageCfg.Influx.URL)
		return influx.New(storageCfg.Influx, logger), nil

	case "memory", "":
		logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
