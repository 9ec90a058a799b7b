package influx

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelrealm/simcore/internal/config"
	"github.com/voxelrealm/simcore/pkg/core"
)

var sample = core.TickStats{
	SessionID:        "abc",
	Time:             time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	Tick:             1200,
	Characters:       14,
	Enemies:          9,
	Projectiles:      3,
	DroppedItems:     2,
	LastTickDuration: 2500 * time.Microsecond,
	PlayerHP:         80,
}

func TestTickStatsPoint(t *testing.T) {
	p := TickStatsPoint(sample)

	assert.Equal(t, MeasurementTickStats, p.Name())
	require.Len(t, p.TagList(), 1)
	assert.Equal(t, "session", p.TagList()[0].Key)
	assert.Equal(t, "abc", p.TagList()[0].Value)

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, int64(1200), fields["tick"])
	assert.Equal(t, int64(9), fields["enemies"])
	assert.InDelta(t, 2.5, fields["tick_ms"], 1e-9)
	assert.Equal(t, sample.Time, p.Time())
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{Enabled: false}, zerolog.Nop(), "")
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	assert.False(t, m.IsValid)
}

func TestWritePoint_NoSink(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.Error(t, m.WriteTickStats(sample))
}

func TestWriteTickStats_Backup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influx_backup.lp.gz")
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), path)
	require.NoError(t, m.openBackup())

	require.NoError(t, m.WriteTickStats(sample))
	require.NoError(t, m.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Contains(t, string(body), "tick_stats,session=abc ")
	assert.Contains(t, string(body), "player_hp=80i")
}

func TestClose_Idempotent(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), filepath.Join(t.TempDir(), "b.gz"))
	require.NoError(t, m.openBackup())
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
