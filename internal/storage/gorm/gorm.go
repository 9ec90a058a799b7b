// Package gormstorage implements storage.Backend on GORM with internal
// queues drained by a background writer. The postgres and sqlite backends
// embed it.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/model"
	"github.com/voxelrealm/simcore/internal/model/convert"
	"github.com/voxelrealm/simcore/internal/queue"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/pkg/core"
)

const defaultWriteInterval = 2 * time.Second

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	LogManager    *logging.SlogManager
	WriteInterval time.Duration
}

type queues struct {
	KillEvents *queue.Queue[model.KillEvent]
	HitEvents  *queue.Queue[model.HitEvent]
	TickStats  *queue.Queue[model.TickStat]
}

func newQueues() *queues {
	return &queues{
		KillEvents: queue.New[model.KillEvent](),
		HitEvents:  queue.New[model.HitEvent](),
		TickStats:  queue.New[model.TickStat](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Pointer[string]
	stopChan  chan struct{}
	wg        sync.WaitGroup
	writeMu   sync.Mutex

	lastDBWriteDuration atomic.Int64
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.WriteInterval <= 0 {
		deps.WriteInterval = defaultWriteInterval
	}
	return &Backend{deps: deps}
}

func (b *Backend) log() *slog.Logger {
	if b.deps.LogManager == nil {
		return slog.Default()
	}
	return b.deps.LogManager.Logger()
}

// DB returns the underlying connection, nil in queue-only mode.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init creates the queues and starts the writer goroutine. The schema must
// already be migrated.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB != nil {
		b.wg.Add(1)
		go b.writeLoop()
	}
	return nil
}

// Close stops the writer and flushes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	select {
	case <-b.stopChan:
		return nil
	default:
	}
	close(b.stopChan)
	b.wg.Wait()
	b.Flush()
	return nil
}

func (b *Backend) currentSession() string {
	if id := b.sessionID.Load(); id != nil {
		return *id
	}
	return ""
}

// StartSession gets or inserts the session row. A resumed session keeps
// its original row.
func (b *Backend) StartSession(s *core.Session) error {
	id := s.ID
	b.sessionID.Store(&id)

	if b.deps.DB == nil {
		return nil
	}

	row := convert.CoreToSession(*s)
	created, err := row.GetOrInsert(b.deps.DB)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	b.log().Info("Session registered", "session", s.ID, "created", created)
	return nil
}

// EndSession flushes the queues and stamps the session end time.
func (b *Backend) EndSession() error {
	b.Flush()

	id := b.currentSession()
	if b.deps.DB == nil || id == "" {
		return nil
	}
	end := convert.SessionEnd(time.Now())
	if err := b.deps.DB.Model(&model.Session{}).Where("id = ?", id).Update("end_time", end.EndTime).Error; err != nil {
		return fmt.Errorf("failed to close session %s: %w", id, err)
	}
	return nil
}

// RecordKillEvent converts and queues a kill event.
func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	b.queues.KillEvents.Push(convert.CoreToKillEvent(*e))
	return nil
}

// RecordHitEvent converts and queues a hit event.
func (b *Backend) RecordHitEvent(e *core.HitEvent) error {
	b.queues.HitEvents.Push(convert.CoreToHitEvent(*e))
	return nil
}

// RecordTickStats converts and queues a load sample.
func (b *Backend) RecordTickStats(s *core.TickStats) error {
	b.queues.TickStats.Push(convert.CoreToTickStat(*s))
	return nil
}

// SaveWorld replaces the session's save row synchronously.
func (b *Backend) SaveWorld(st *core.SaveState) error {
	if b.deps.DB == nil {
		return nil
	}
	row, err := convert.CoreToWorldSave(*st)
	if err != nil {
		return err
	}
	return b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", st.SessionID).Delete(&model.WorldSave{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous save: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert world save: %w", err)
		}
		return nil
	})
}

// LoadWorld returns the save of session ref, or the most recent save when
// ref is empty.
func (b *Backend) LoadWorld(ref string) (*core.SaveState, error) {
	if b.deps.DB == nil {
		return nil, storage.ErrNoSave
	}
	q := b.deps.DB.Order("saved_at desc")
	if ref != "" {
		q = q.Where("session_id = ?", ref)
	}
	var row model.WorldSave
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNoSave
		}
		return nil, fmt.Errorf("failed to query world save: %w", err)
	}
	return convert.WorldSaveToCore(row)
}

// LastWriteDuration reports how long the last writer pass took.
func (b *Backend) LastWriteDuration() time.Duration {
	return time.Duration(b.lastDBWriteDuration.Load())
}

// Flush drains every queue into the database. It is a no-op without a DB.
func (b *Backend) Flush() {
	if b.deps.DB == nil || b.queues == nil {
		return
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	start := time.Now()
	log := b.log()
	writeQueue(b.deps.DB, b.queues.KillEvents, "kill events", log)
	writeQueue(b.deps.DB, b.queues.HitEvents, "hit events", log)
	writeQueue(b.deps.DB, b.queues.TickStats, "tick stats", log)
	b.lastDBWriteDuration.Store(int64(time.Since(start)))
}

// writeQueue writes all items from a queue in one transaction. Failed
// batches go back on the queue for the next pass.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if err := tx.Create(&items).Error; err != nil {
		log.Error("DB write failed", "table", name, "count", len(items), "error", err)
		tx.Rollback()
		q.Push(items...)
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Error("DB commit failed", "table", name, "error", err)
		q.Push(items...)
	}
}

func (b *Backend) writeLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.deps.WriteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			b.Flush()
		}
	}
}
