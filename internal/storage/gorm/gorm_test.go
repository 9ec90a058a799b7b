package gormstorage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/database"
	"github.com/voxelrealm/simcore/internal/logging"
	"github.com/voxelrealm/simcore/internal/model"
	"github.com/voxelrealm/simcore/internal/storage"
	"github.com/voxelrealm/simcore/pkg/core"
)

// Compile-time interface checks
var (
	_ storage.Backend               = (*Backend)(nil)
	_ storage.WriteDurationProvider = (*Backend)(nil)
)

// newTestBackend creates a Backend with no DB (queue-only mode).
func newTestBackend() *Backend {
	return New(Dependencies{LogManager: logging.NewSlogManager()})
}

func newDBBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	b := New(Dependencies{DB: db, LogManager: logging.NewSlogManager(), WriteInterval: time.Hour})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testSession() *core.Session {
	return &core.Session{
		ID:         "11111111-2222-3333-4444-555555555555",
		WorldName:  "overworld",
		Seed:       42,
		Difficulty: core.DifficultyNormal,
		StartTime:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:    "test",
	}
}

func TestInitClose(t *testing.T) {
	b := newTestBackend()

	require.NoError(t, b.Init())
	require.NotNil(t, b.queues)
	require.NotNil(t, b.stopChan)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "second close is a no-op")
}

func TestRecord_QueuesToInternalQueue(t *testing.T) {
	b := newTestBackend()
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.RecordKillEvent(&core.KillEvent{VictimKind: core.KindZombie, Tick: 3}))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{Damage: 4}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{Characters: 7}))

	assert.Equal(t, 1, b.queues.KillEvents.Len())
	assert.Equal(t, 1, b.queues.HitEvents.Len())
	assert.Equal(t, 1, b.queues.TickStats.Len())

	kill, ok := b.queues.KillEvents.Pop()
	require.True(t, ok)
	assert.Equal(t, "zombie", kill.VictimKind)
}

func TestNoDB_SessionAndSavesAreNoOps(t *testing.T) {
	b := newTestBackend()
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.SaveWorld(&core.SaveState{Version: core.SaveVersion}))
	_, err := b.LoadWorld("")
	assert.ErrorIs(t, err, storage.ErrNoSave)
	require.NoError(t, b.EndSession())
}

func TestFlush_WritesQueuedRows(t *testing.T) {
	b := newDBBackend(t)
	s := testSession()
	require.NoError(t, b.StartSession(s))

	require.NoError(t, b.RecordKillEvent(&core.KillEvent{SessionID: s.ID, VictimKind: core.KindSpider, Time: time.Now()}))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{SessionID: s.ID, Damage: 3, Time: time.Now()}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{SessionID: s.ID, Tick: 10, Time: time.Now()}))

	b.Flush()

	var kills, hits, stats int64
	require.NoError(t, b.DB().Model(&model.KillEvent{}).Count(&kills).Error)
	require.NoError(t, b.DB().Model(&model.HitEvent{}).Count(&hits).Error)
	require.NoError(t, b.DB().Model(&model.TickStat{}).Count(&stats).Error)
	assert.Equal(t, int64(1), kills)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), stats)
	assert.True(t, b.queues.KillEvents.Empty())
	assert.Greater(t, b.LastWriteDuration(), time.Duration(0))
}

func TestStartSession_ResumesExistingRow(t *testing.T) {
	b := newDBBackend(t)
	s := testSession()
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.StartSession(s))

	var count int64
	require.NoError(t, b.DB().Model(&model.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEndSession_StampsEndTime(t *testing.T) {
	b := newDBBackend(t)
	s := testSession()
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.EndSession())

	var row model.Session
	require.NoError(t, b.DB().First(&row, "id = ?", s.ID).Error)
	assert.True(t, row.EndTime.Valid)
}

func TestSaveAndLoadWorld(t *testing.T) {
	b := newDBBackend(t)
	s := testSession()
	require.NoError(t, b.StartSession(s))

	first := &core.SaveState{Version: core.SaveVersion, SessionID: s.ID, WorldName: s.WorldName, Tick: 10, SavedAt: time.Now()}
	second := &core.SaveState{Version: core.SaveVersion, SessionID: s.ID, WorldName: s.WorldName, Tick: 20, SavedAt: time.Now().Add(time.Second)}
	require.NoError(t, b.SaveWorld(first))
	require.NoError(t, b.SaveWorld(second))

	var count int64
	require.NoError(t, b.DB().Model(&model.WorldSave{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "autosave overwrites the session save")

	got, err := b.LoadWorld("")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), got.Tick)

	got, err = b.LoadWorld(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.WorldName, got.WorldName)

	_, err = b.LoadWorld("missing")
	assert.ErrorIs(t, err, storage.ErrNoSave)
}

func TestClose_FlushesRemainingRows(t *testing.T) {
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	b := New(Dependencies{DB: db, WriteInterval: time.Hour})
	require.NoError(t, b.Init())
	require.NoError(t, b.StartSession(testSession()))
	require.NoError(t, b.RecordTickStats(&core.TickStats{SessionID: testSession().ID, Tick: 1}))
	require.NoError(t, b.Close())

	var count int64
	require.NoError(t, db.Model(&model.TickStat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
