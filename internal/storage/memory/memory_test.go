package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/internal/storage"
	v1 "github.com/voxelrealm/simcore/internal/storage/memory/export/v1"
	"github.com/voxelrealm/simcore/pkg/core"
)

var (
	_ storage.Backend    = (*Backend)(nil)
	_ storage.Uploadable = (*Backend)(nil)
)

var start = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

func newBackend(t *testing.T, compress bool) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{OutputDir: t.TempDir(), CompressOutput: compress})
	b.now = func() time.Time { return start.Add(90 * time.Second) }
	require.NoError(t, b.Init())
	return b
}

func session() *core.Session {
	return &core.Session{ID: "s1", WorldName: "over world", Difficulty: core.DifficultyNormal, StartTime: start}
}

func saveState(sessionID string, tick uint64, savedAt time.Time) *core.SaveState {
	return &core.SaveState{
		Version:   core.SaveVersion,
		SessionID: sessionID,
		WorldName: "overworld",
		SavedAt:   savedAt,
		Tick:      tick,
		Player:    core.Player{HP: 77, MaxHP: 100},
		Characters: []core.Character{
			{ID: "z1", Name: "Zombie", Kind: core.KindZombie, HP: 20, MaxHP: 20},
		},
	}
}

func TestRecordAndRead(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.StartSession(session()))

	require.NoError(t, b.RecordKillEvent(&core.KillEvent{VictimID: "z1"}))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{VictimID: "z1", Damage: 20}))
	require.NoError(t, b.RecordTickStats(&core.TickStats{Tick: 5}))

	assert.Len(t, b.Kills(), 1)
	assert.Len(t, b.Hits(), 1)
	assert.Len(t, b.Stats(), 1)
}

func TestStartSession_ClearsRecords(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.StartSession(session()))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{VictimID: "z1"}))

	require.NoError(t, b.StartSession(session()))
	assert.Empty(t, b.Kills())
}

func TestEndSession_WritesPlainExport(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.StartSession(session()))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{VictimName: "Zombie", VictimKind: core.KindZombie, XP: 10}))

	require.NoError(t, b.EndSession())

	path := b.ExportedFilePath()
	assert.Equal(t, "over_world_20260405_060708.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var export v1.Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "s1", export.SessionID)
	assert.Equal(t, 1, export.Totals.Kills)
	assert.Equal(t, 10, export.Totals.XP)

	meta := b.ExportMetadata()
	assert.Equal(t, "s1", meta.SessionID)
	assert.Equal(t, 1, meta.Kills)
	assert.Equal(t, 10, meta.XP)
	assert.Equal(t, 0, meta.Samples)
	assert.InDelta(t, 90, meta.Duration, 1e-9)
}

func TestEndSession_WritesGzipExport(t *testing.T) {
	b := newBackend(t, true)
	require.NoError(t, b.StartSession(session()))
	require.NoError(t, b.EndSession())

	path := b.ExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	var export v1.Export
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, "over world", export.WorldName)
}

func TestEndSession_WithoutStartIsNoop(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.EndSession())
	assert.Empty(t, b.ExportedFilePath())
}

func TestSaveAndLoadWorld(t *testing.T) {
	b := newBackend(t, false)

	require.NoError(t, b.SaveWorld(saveState("s1", 10, start)))
	_, err := os.Stat(b.SavePath("overworld", "s1"))
	require.NoError(t, err)

	st, err := b.LoadWorld("s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), st.Tick)
	assert.Equal(t, 77, st.Player.HP)
	require.Len(t, st.Characters, 1)
	assert.Equal(t, core.KindZombie, st.Characters[0].Kind)
}

func TestSaveWorld_OverwritesSessionSave(t *testing.T) {
	b := newBackend(t, false)

	require.NoError(t, b.SaveWorld(saveState("s1", 10, start)))
	require.NoError(t, b.SaveWorld(saveState("s1", 20, start.Add(time.Minute))))

	st, err := b.LoadWorld("s1")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), st.Tick)
}

func TestLoadWorld_LatestAndPath(t *testing.T) {
	b := newBackend(t, false)
	require.NoError(t, b.SaveWorld(saveState("old", 1, start)))
	require.NoError(t, b.SaveWorld(saveState("new", 2, start.Add(time.Hour))))

	st, err := b.LoadWorld("")
	require.NoError(t, err)
	assert.Equal(t, "new", st.SessionID)

	st, err = b.LoadWorld(b.SavePath("overworld", "old"))
	require.NoError(t, err)
	assert.Equal(t, "old", st.SessionID)
}

func TestLoadWorld_NoSave(t *testing.T) {
	b := newBackend(t, false)

	_, err := b.LoadWorld("")
	assert.ErrorIs(t, err, storage.ErrNoSave)

	_, err = b.LoadWorld("missing")
	assert.ErrorIs(t, err, storage.ErrNoSave)

	_, err = b.LoadWorld(filepath.Join(t.TempDir(), "nope.sav.zst"))
	assert.ErrorIs(t, err, storage.ErrNoSave)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "world", safeName(""))
	assert.Equal(t, "a_b_c_d", safeName("a b:c/d"))
}
