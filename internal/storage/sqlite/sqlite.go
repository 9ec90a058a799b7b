// Package sqlitestorage implements storage.Backend on an in-memory SQLite
// database that is periodically dumped to disk with VACUUM INTO. A dump is
// a point-in-time snapshot so writes never pause.
package sqlitestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/voxelrealm/simcore/internal/database"
	"github.com/voxelrealm/simcore/internal/logging"
	gormstorage "github.com/voxelrealm/simcore/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	cfg      Config
	log      zerolog.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates the in-memory database and the embedded GORM backend.
func New(cfg Config, logManager *logging.SlogManager, log zerolog.Logger) (*Backend, error) {
	db, err := database.OpenSQLite("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(gormstorage.Dependencies{DB: db, LogManager: logManager}),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema, starts the writer and the dump loop.
func (b *Backend) Init() error {
	if err := database.Migrate(b.db, b.log); err != nil {
		return err
	}
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" {
		if err := os.MkdirAll(filepath.Dir(b.cfg.DumpPath), 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
		if b.cfg.DumpInterval > 0 {
			b.wg.Add(1)
			go b.dumpLoop()
		}
	}
	return nil
}

// Close stops the dump loop, flushes the writer and writes a final dump.
func (b *Backend) Close() error {
	close(b.stopChan)
	b.wg.Wait()
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.cfg.DumpPath == "" {
		return nil
	}
	return b.Dump()
}

// Dump flushes queued rows and vacuums the database into DumpPath.
func (b *Backend) Dump() error {
	b.Flush()
	took, err := database.TimedDump(b.db, b.cfg.DumpPath)
	if err != nil {
		return err
	}
	b.log.Debug().Dur("duration", took).Str("path", b.cfg.DumpPath).Msg("Dumped memory DB to disk")
	return nil
}

// ExportedFilePath returns the path of the on-disk dump.
func (b *Backend) ExportedFilePath() string {
	return b.cfg.DumpPath
}

func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Dump(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
