// Package postgres implements storage.Backend on PostgreSQL with PostGIS,
// sharing the queued writer of the GORM backend.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/database"
	"github.com/voxelrealm/simcore/internal/logging"
	gormstorage "github.com/voxelrealm/simcore/internal/storage/gorm"
)

// Dependencies holds all dependencies for the postgres backend. DB is
// opened from Config when nil.
type Dependencies struct {
	DB         *gorm.DB
	Config     config.DBConfig
	LogManager *logging.SlogManager
	DBLogger   zerolog.Logger
}

// Backend wraps the GORM backend with postgres connection handling.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new postgres storage backend. Nothing connects until Init.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init connects, migrates the schema and starts the queued writer.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.OpenPostgres(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	if err := database.Migrate(b.deps.DB, b.deps.DBLogger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:         b.deps.DB,
		LogManager: b.deps.LogManager,
	})
	return b.Backend.Init()
}

// Close stops the writer and releases the connection pool.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	if err := b.Backend.Close(); err != nil {
		return err
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
