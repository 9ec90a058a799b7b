package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/database"
	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/internal/storage/memory"
	pgstorage "github.com/voxelrealm/simcore/internal/storage/postgres"
	sqlitestorage "github.com/voxelrealm/simcore/internal/storage/sqlite"
	wsstorage "github.com/voxelrealm/simcore/internal/storage/websocket"
)

// initStorage builds the configured backend and runs its Init.
func (h *host) initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := h.createStorageBackend(storageCfg)
	if err != nil {
		h.logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		h.logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		return err
	}
	h.backend = backend
	h.logger.Info("Storage backend ready", "type", storageCfg.Type)
	return nil
}

func (h *host) createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		// Falls back to an in-memory SQLite database when postgres is down,
		// so the session still records and can be dumped later.
		dbLog := logging.NewZerolog(h.logFile(), h.logLevel, "database")
		mgr := database.NewManager(dbLog)
		if err := mgr.Connect(config.GetDBConfig()); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if mgr.ShouldSaveLocal {
			h.logger.Warn("Postgres unreachable, recording to in-memory SQLite")
		}
		return pgstorage.New(pgstorage.Dependencies{
			DB:         mgr.DB,
			Config:     config.GetDBConfig(),
			LogManager: h.slog,
			DBLogger:   dbLog,
		}), nil

	case "sqlite":
		dumpPath := storageCfg.SQLite.Path
		if dumpPath == "" {
			dumpPath = filepath.Join(storageCfg.Memory.OutputDir, fmt.Sprintf("voxelsim_%s.db", h.started.Format("20060102_150405")))
		}
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     dumpPath,
		}, h.slog, logging.NewZerolog(h.logFile(), h.logLevel, "sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		return backend, nil

	case "websocket":
		wsURL := storageCfg.WebSocket.URL
		if wsURL == "" {
			wsURL = httpToWS(config.GetAPIConfig().ServerURL) + "/api/v1/stream"
		}
		secret := storageCfg.WebSocket.Secret
		if secret == "" {
			secret = config.GetAPIConfig().APIKey
		}
		h.logger.Info("WebSocket storage backend selected", "url", wsURL)
		return wsstorage.New(wsstorage.Config{URL: wsURL, Secret: secret}, h.logger), nil

	case "memory", "":
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

// httpToWS converts an HTTP(S) URL to a WebSocket URL.
func httpToWS(httpURL string) string {
	s := strings.TrimRight(httpURL, "/")
	s = strings.Replace(s, "https://", "wss://", 1)
	s = strings.Replace(s, "http://", "ws://", 1)
	return s
}
