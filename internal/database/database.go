// Package database opens and migrates the relational stores behind the
// postgres and sqlite backends.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/model"
)

// ErrNoDumpPath is returned when a dump is requested without a target file.
var ErrNoDumpPath = errors.New("sqlite file path not set")

var memoryDBs atomic.Uint64

// Manager handles database connections and operations.
type Manager struct {
	DB              *gorm.DB
	SqlDB           *sql.DB
	ShouldSaveLocal bool
	Logger          zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect opens postgres and falls back to an in-memory SQLite database
// when postgres is unreachable. The schema is migrated either way.
func (m *Manager) Connect(cfg config.DBConfig) error {
	db, err := OpenPostgres(cfg)
	if err == nil {
		err = ping(db)
	}
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		m.ShouldSaveLocal = true
		if db, err = OpenSQLite(""); err != nil {
			return fmt.Errorf("failed to get local SQLite DB: %w", err)
		}
	} else {
		m.Logger.Info().Str("host", cfg.Host).Msg("Connected to database")
	}

	m.DB = db
	if m.SqlDB, err = db.DB(); err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if !m.ShouldSaveLocal {
		m.SqlDB.SetMaxOpenConns(10)
	}
	return Migrate(db, m.Logger)
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	return nil
}

// DSN builds the postgres connection string.
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// OpenPostgres returns a connection to the Postgres database.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        10000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// OpenSQLite returns a connection to a SQLite database. An empty path gives
// a private in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = fmt.Sprintf("file:voxelsim-%d?mode=memory&cache=shared", memoryDBs.Add(1))
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	// a single connection keeps the in-memory database alive and serialized
	if path == "" {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return db, nil
}

// Migrate creates or updates every table in model.DatabaseModels.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
		log.Info().Msg("PostGIS extension created")
	}

	log.Info().Msg("Migrating schema")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Msg("Database setup complete")
	return nil
}

// DumpMemoryDBToDisk vacuums the in-memory database to a disk file,
// replacing any previous dump.
func DumpMemoryDBToDisk(db *gorm.DB, sqliteFilePath string) error {
	if sqliteFilePath == "" {
		return ErrNoDumpPath
	}

	if _, err := os.Stat(sqliteFilePath); err == nil {
		if err := os.Remove(sqliteFilePath); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}

	if err := db.Exec("VACUUM INTO ?", sqliteFilePath).Error; err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}
	return nil
}

// TimedDump runs DumpMemoryDBToDisk and reports how long it took.
func TimedDump(db *gorm.DB, sqliteFilePath string) (time.Duration, error) {
	start := time.Now()
	err := DumpMemoryDBToDisk(db, sqliteFilePath)
	return time.Since(start), err
}
