package monitor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/session"
	"github.com/voxelrealm/simcore/internal/tuning"
	"github.com/voxelrealm/simcore/internal/world"
	"github.com/voxelrealm/simcore/pkg/core"
	"github.com/voxelrealm/simcore/pkg/streaming"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedTimer time.Duration

func (f fixedTimer) LastTickDuration() time.Duration { return time.Duration(f) }

type statsBackend struct {
	stats    []core.TickStats
	writeDur time.Duration
}

func (b *statsBackend) Init() error                               { return nil }
func (b *statsBackend) Close() error                              { return nil }
func (b *statsBackend) StartSession(*core.Session) error          { return nil }
func (b *statsBackend) EndSession() error                         { return nil }
func (b *statsBackend) RecordKillEvent(*core.KillEvent) error     { return nil }
func (b *statsBackend) RecordHitEvent(*core.HitEvent) error       { return nil }
func (b *statsBackend) SaveWorld(*core.SaveState) error           { return nil }
func (b *statsBackend) LoadWorld(string) (*core.SaveState, error) { return nil, errors.New("none") }
func (b *statsBackend) LastWriteDuration() time.Duration          { return b.writeDur }
func (b *statsBackend) RecordTickStats(s *core.TickStats) error {
	b.stats = append(b.stats, *s)
	return nil
}

type pointRecorder struct {
	points []core.TickStats
	err    error
}

func (p *pointRecorder) WriteTickStats(s core.TickStats) error {
	p.points = append(p.points, s)
	return p.err
}

func newWorld(t *testing.T) (*world.Store, *session.Context) {
	t.Helper()
	store := world.NewStore(tuning.Default().World, core.Player{HP: 75, MaxHP: 100})
	store.AddCharacters(
		world.NewCharacter("z", core.KindZombie, core.Vec3{}),
		world.NewCharacter("s", core.KindSkeleton, core.Vec3{X: 3}),
		world.NewCharacter("c", core.KindCow, core.Vec3{X: 6}),
	)
	store.AdvanceTick()
	return store, session.NewContext()
}

func TestSample(t *testing.T) {
	store, sessions := newWorld(t)
	sessions.Start("overworld", 1, core.DifficultyNormal, "test")

	svc := NewService(Dependencies{Store: store, Session: sessions, Timer: fixedTimer(3 * time.Millisecond)})
	got := svc.Sample(now)

	assert.Equal(t, sessions.Current().ID, got.SessionID)
	assert.Equal(t, uint64(1), got.Tick)
	assert.Equal(t, 3, got.Characters)
	assert.Equal(t, 2, got.Enemies)
	assert.Equal(t, 75, got.PlayerHP)
	assert.Equal(t, 3*time.Millisecond, got.LastTickDuration)
}

func TestReport_FansOut(t *testing.T) {
	store, sessions := newWorld(t)
	sessions.Start("overworld", 1, core.DifficultyNormal, "test")
	backend := &statsBackend{writeDur: 40 * time.Millisecond}
	points := &pointRecorder{err: errors.New("influx down")}
	statusPath := filepath.Join(t.TempDir(), "status.json")

	svc := NewService(Dependencies{
		Store:      store,
		Session:    sessions,
		Backend:    backend,
		Influx:     points,
		StatusPath: statusPath,
	})
	svc.Report(now)

	assert.Len(t, backend.stats, 1)
	assert.Len(t, points.points, 1, "influx failure is logged, not fatal")

	body, err := os.ReadFile(statusPath)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 3, st.Stats.Characters)
	assert.InDelta(t, 40.0, st.LastWriteDuration, 1e-9)
	assert.Nil(t, st.Stream)
}

type streamingBackend struct {
	statsBackend
	stream streaming.Stats
}

func (b *streamingBackend) StreamStats() streaming.Stats { return b.stream }

func TestReport_StatusIncludesStreamStats(t *testing.T) {
	store, sessions := newWorld(t)
	sessions.Start("overworld", 1, core.DifficultyNormal, "test")
	backend := &streamingBackend{stream: streaming.Stats{
		Sent:       120,
		Dropped:    map[string]uint64{streaming.TypeTickStats: 4},
		Reconnects: 1,
	}}
	statusPath := filepath.Join(t.TempDir(), "status.json")

	NewService(Dependencies{Store: store, Session: sessions, Backend: backend, StatusPath: statusPath}).Report(now)

	body, err := os.ReadFile(statusPath)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(body, &st))
	require.NotNil(t, st.Stream)
	assert.Equal(t, uint64(4), st.Stream.Dropped[streaming.TypeTickStats])
	assert.Equal(t, uint64(1), st.Stream.Reconnects)
	assert.Len(t, backend.stats, 1)
}

func TestReport_SkipsBackendWithoutSession(t *testing.T) {
	store, sessions := newWorld(t)
	backend := &statsBackend{}

	NewService(Dependencies{Store: store, Session: sessions, Backend: backend}).Report(now)

	assert.Empty(t, backend.stats)
}
